package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carelinkhq/carelink-api/internal/admin"
	"github.com/carelinkhq/carelink-api/internal/appointments"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/chat"
	"github.com/carelinkhq/carelink-api/internal/doctors"
	"github.com/carelinkhq/carelink-api/internal/ehr"
	httpmiddleware "github.com/carelinkhq/carelink-api/internal/http/middleware"
	"github.com/carelinkhq/carelink-api/internal/notifications"
	"github.com/carelinkhq/carelink-api/internal/prescriptions"
	"github.com/carelinkhq/carelink-api/internal/reviews"
	"github.com/carelinkhq/carelink-api/internal/triage"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger        *logging.Logger
	TokenVerifier httpmiddleware.TokenVerifier

	UsersHandler         *users.Handler
	DoctorsHandler       *doctors.Handler
	AppointmentsHandler  *appointments.Handler
	ChatHandler          *chat.Handler
	PrescriptionsHandler *prescriptions.Handler
	EHRHandler           *ehr.Handler
	ReviewsHandler       *reviews.Handler
	NotificationsHandler *notifications.Handler
	TriageHandler        *triage.Handler
	AdminHandler         *admin.Handler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSec > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Public surface: signup, login, and the doctor directory.
		api.Post("/auth/{role}/signup", cfg.UsersHandler.Signup)
		api.Post("/auth/{role}/login", cfg.UsersHandler.Login)
		api.Get("/doctors", cfg.DoctorsHandler.List)
		api.Get("/doctors/{id}", cfg.DoctorsHandler.Get)
		api.Get("/doctors/{id}/availability", cfg.DoctorsHandler.GetAvailability)
		api.Get("/reviews/doctor/{doctorID}", cfg.ReviewsHandler.ListByDoctor)

		// Everything else requires a valid token.
		api.Group(func(private chi.Router) {
			private.Use(httpmiddleware.RequireAuth(cfg.TokenVerifier))

			private.With(httpmiddleware.RequireRole(auth.RoleDoctor, auth.RoleAdmin)).
				Put("/doctors/{id}", cfg.DoctorsHandler.Update)
			private.With(httpmiddleware.RequireRole(auth.RoleDoctor, auth.RoleAdmin)).
				Post("/doctors/{id}/availability", cfg.DoctorsHandler.SetAvailability)
			private.With(httpmiddleware.RequireRole(auth.RoleAdmin)).
				Put("/doctors/{id}/approve", cfg.DoctorsHandler.Approve)
			private.With(httpmiddleware.RequireRole(auth.RoleAdmin)).
				Delete("/doctors/{id}", cfg.DoctorsHandler.Delete)

			private.Route("/appointments", func(ar chi.Router) {
				ar.With(httpmiddleware.RequireRole(auth.RolePatient)).
					Post("/", cfg.AppointmentsHandler.Create)
				ar.Get("/", cfg.AppointmentsHandler.List)
				ar.Get("/{id}", cfg.AppointmentsHandler.Get)
				ar.With(httpmiddleware.RequireRole(auth.RoleDoctor, auth.RoleAdmin)).
					Put("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
				ar.Delete("/{id}", cfg.AppointmentsHandler.Cancel)
			})

			private.Route("/chat", func(cr chi.Router) {
				cr.Post("/", cfg.ChatHandler.Start)
				cr.Get("/", cfg.ChatHandler.List)
				cr.Get("/{appointmentID}", cfg.ChatHandler.Get)
				cr.Post("/{appointmentID}/message", cfg.ChatHandler.Send)
				cr.Put("/{appointmentID}/read", cfg.ChatHandler.MarkRead)
			})

			private.Route("/prescriptions", func(pr chi.Router) {
				pr.With(httpmiddleware.RequireRole(auth.RoleDoctor)).
					Post("/", cfg.PrescriptionsHandler.Create)
				pr.Get("/patient", cfg.PrescriptionsHandler.ListForPatient)
				pr.With(httpmiddleware.RequireRole(auth.RoleDoctor, auth.RoleAdmin)).
					Get("/patient/{patientID}", cfg.PrescriptionsHandler.ListForPatient)
				pr.Get("/{id}", cfg.PrescriptionsHandler.Get)
			})

			private.Route("/ehr", func(er chi.Router) {
				er.Get("/", cfg.EHRHandler.Get)
				er.With(httpmiddleware.RequireRole(auth.RolePatient)).
					Put("/", cfg.EHRHandler.Update)
				er.With(httpmiddleware.RequireRole(auth.RolePatient)).
					Post("/document", cfg.EHRHandler.AddDocument)
				er.With(httpmiddleware.RequireRole(auth.RoleDoctor, auth.RoleAdmin)).
					Get("/{patientID}", cfg.EHRHandler.Get)
			})

			private.With(httpmiddleware.RequireRole(auth.RolePatient)).
				Post("/reviews", cfg.ReviewsHandler.Create)
			private.With(httpmiddleware.RequireRole(auth.RoleDoctor)).
				Put("/reviews/{id}/respond", cfg.ReviewsHandler.Respond)

			private.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", cfg.NotificationsHandler.List)
				nr.Put("/read-all", cfg.NotificationsHandler.MarkAllRead)
				nr.Put("/{id}/read", cfg.NotificationsHandler.MarkRead)
				nr.Delete("/{id}", cfg.NotificationsHandler.Delete)
			})

			private.Post("/symptoms/check", cfg.TriageHandler.Check)
			private.Get("/symptoms/history", cfg.TriageHandler.History)

			private.Route("/admin", func(adm chi.Router) {
				adm.Use(httpmiddleware.RequireRole(auth.RoleAdmin))
				adm.Get("/dashboard", cfg.AdminHandler.Dashboard)
				adm.Get("/users", cfg.AdminHandler.ListUsers)
				adm.Put("/users/{id}/status", cfg.AdminHandler.SetUserStatus)
				adm.Put("/doctors/{id}/approve", cfg.DoctorsHandler.Approve)
				adm.Get("/analytics", cfg.AdminHandler.Analytics)
				adm.Post("/hospitals", cfg.AdminHandler.CreateHospital)
				adm.Get("/hospitals", cfg.AdminHandler.ListHospitals)
				adm.Post("/departments", cfg.AdminHandler.CreateDepartment)
				adm.Get("/departments", cfg.AdminHandler.ListDepartments)
			})
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
