package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carelinkhq/carelink-api/internal/admin"
	"github.com/carelinkhq/carelink-api/internal/api/router"
	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/chat"
	"github.com/carelinkhq/carelink-api/internal/config"
	"github.com/carelinkhq/carelink-api/internal/database"
	"github.com/carelinkhq/carelink-api/internal/doctors"
	"github.com/carelinkhq/carelink-api/internal/ehr"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/observability/metrics"
	"github.com/carelinkhq/carelink-api/internal/prescriptions"
	"github.com/carelinkhq/carelink-api/internal/reviews"
	"github.com/carelinkhq/carelink-api/internal/triage"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

type repositories struct {
	users         users.Repository
	appointments  appointments.Repository
	chats         chat.Repository
	prescriptions prescriptions.Repository
	ehr           ehr.Repository
	reviews       reviews.Repository
	notifications notifications.Repository
	checks        triage.Store
	facilities    admin.FacilityRepository
	availability  doctors.AvailabilityRepository
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewForEnv(cfg.LogLevel, cfg.Env)
	logger.Info("starting carelink API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	repos, mongoClient, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if mongoClient != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(ctx)
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	clinicMetrics := metrics.NewClinicMetrics(registry)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var cache *doctors.DirectoryCache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cache = doctors.NewDirectoryCache(redis.NewClient(opts), cfg.DoctorCacheTTL, logger)
		logger.Info("doctor directory cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.DoctorCacheTTL)
	}

	var emailSender notifications.EmailSender
	if sender := notifications.NewSendGridSender(notifications.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		emailSender = sender
		logger.Info("email mirroring enabled", "from", cfg.SendGridFromEmail)
	}

	llm, err := buildLLMClient(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize symptom checker", "error", err)
		os.Exit(1)
	}

	notifyService := notifications.NewService(repos.notifications, emailSender, clinicMetrics, logger)
	userService := users.NewService(repos.users, issuer, logger)
	apptService := appointments.NewService(repos.appointments, repos.users, notifyService, clinicMetrics, logger)
	chatService := chat.NewService(repos.chats, repos.appointments, notifyService, logger)
	rxService := prescriptions.NewService(repos.prescriptions, repos.appointments, logger)
	ehrService := ehr.NewService(repos.ehr, logger)
	reviewService := reviews.NewService(repos.reviews, repos.appointments, repos.users, cache, logger)
	triageService := triage.NewService(repos.checks, llm, triage.Options{
		Timeout:    cfg.LLMTimeout,
		MaxRetries: cfg.LLMMaxRetries,
	}, clinicMetrics, logger)
	doctorService := doctors.NewService(repos.users, reviewService, notifyService, cache, repos.availability, logger)
	adminService := admin.NewService(repos.users, repos.appointments, repos.checks, repos.facilities, notifyService, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		TokenVerifier:        issuer,
		UsersHandler:         users.NewHandler(userService, logger),
		DoctorsHandler:       doctors.NewHandler(doctorService, logger),
		AppointmentsHandler:  appointments.NewHandler(apptService, logger),
		ChatHandler:          chat.NewHandler(chatService, logger),
		PrescriptionsHandler: prescriptions.NewHandler(rxService, logger),
		EHRHandler:           ehr.NewHandler(ehrService, logger),
		ReviewsHandler:       reviews.NewHandler(reviewService, logger),
		NotificationsHandler: notifications.NewHandler(repos.notifications, logger),
		TriageHandler:        triage.NewHandler(triageService, logger),
		AdminHandler:         admin.NewHandler(adminService, logger),
		MetricsHandler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		RateLimitPerSec:      cfg.RateLimitPerSecond,
		RateLimitBurst:       cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildRepositories wires either the Mongo-backed repositories or the
// in-memory ones for local development (USE_MEMORY_STORE=true).
func buildRepositories(cfg *config.Config, logger *logging.Logger) (*repositories, *mongo.Client, error) {
	if cfg.UseMemoryStore {
		logger.Warn("using in-memory storage; data will not survive restarts")
		return &repositories{
			users:         users.NewInMemoryRepository(),
			appointments:  appointments.NewInMemoryRepository(),
			chats:         chat.NewInMemoryRepository(),
			prescriptions: prescriptions.NewInMemoryRepository(),
			ehr:           ehr.NewInMemoryRepository(),
			reviews:       reviews.NewInMemoryRepository(),
			notifications: notifications.NewInMemoryRepository(),
			checks:        triage.NewInMemoryStore(),
			facilities:    admin.NewInMemoryFacilityRepository(),
			availability:  doctors.NewInMemoryAvailabilityRepository(),
		}, nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("connected to mongo", "database", cfg.MongoDatabase)

	return &repositories{
		users:         users.NewMongoRepository(db),
		appointments:  appointments.NewMongoRepository(db),
		chats:         chat.NewMongoRepository(db),
		prescriptions: prescriptions.NewMongoRepository(db),
		ehr:           ehr.NewMongoRepository(db),
		reviews:       reviews.NewMongoRepository(db),
		notifications: notifications.NewMongoRepository(db),
		checks:        triage.NewMongoStore(db),
		facilities:    admin.NewMongoFacilityRepository(db),
		availability:  doctors.NewMongoAvailabilityRepository(db),
	}, db.Client(), nil
}

// buildLLMClient assembles the symptom-checker inference stack: OpenAI
// as primary, Gemini as fallback when both keys are configured, wrapped
// in a circuit breaker. At least one provider key must be set.
func buildLLMClient(cfg *config.Config, logger *logging.Logger) (triage.LLMClient, error) {
	var primary, fallback triage.LLMClient

	if cfg.OpenAIAPIKey != "" {
		client, err := triage.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		primary = client
		logger.Info("symptom checker using openai", "model", cfg.OpenAIModel)
	}

	if cfg.GeminiAPIKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := triage.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		if primary == nil {
			primary = client
			logger.Info("symptom checker using gemini", "model", cfg.GeminiModel)
		} else {
			fallback = client
			logger.Info("symptom checker fallback enabled", "model", cfg.GeminiModel)
		}
	}

	if primary == nil {
		return nil, fmt.Errorf("no LLM provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")
	}
	if fallback != nil {
		primary = triage.NewFallbackClient(primary, fallback, logger)
	}
	return triage.NewBreakerClient(primary), nil
}
