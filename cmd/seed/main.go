// Command seed loads demo accounts into the configured database so a
// fresh environment has an admin, a few approved doctors, and a patient
// to log in with.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/carelinkhq/carelink-api/internal/admin"
	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/config"
	"github.com/carelinkhq/carelink-api/internal/database"
	"github.com/carelinkhq/carelink-api/internal/users"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

type seedAccount struct {
	role           auth.Role
	name           string
	email          string
	phone          string
	specialization string
	approve        bool
}

var accounts = []seedAccount{
	{role: auth.RoleAdmin, name: "CareLink Admin", email: "admin@carelink.local", phone: "555-0100"},
	{role: auth.RolePatient, name: "Pat Demo", email: "patient@carelink.local", phone: "555-0101"},
	{role: auth.RoleDoctor, name: "Dr. Asha Rao", email: "asha.rao@carelink.local", phone: "555-0102", specialization: "cardiology", approve: true},
	{role: auth.RoleDoctor, name: "Dr. Miguel Santos", email: "miguel.santos@carelink.local", phone: "555-0103", specialization: "dermatology", approve: true},
	{role: auth.RoleDoctor, name: "Dr. Lena Fischer", email: "lena.fischer@carelink.local", phone: "555-0104", specialization: "pediatrics"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewForEnv(cfg.LogLevel, cfg.Env)

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "demo-password-1"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}
	defer db.Client().Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	repo := users.NewMongoRepository(db)
	service := users.NewService(repo, auth.NewIssuer("seed-only", time.Minute), logger)

	for _, acct := range accounts {
		u, err := service.Signup(ctx, &users.SignupRequest{
			Role:           acct.role,
			Name:           acct.name,
			Email:          acct.email,
			Password:       password,
			Phone:          acct.phone,
			Specialization: acct.specialization,
		})
		if errors.Is(err, users.ErrDuplicateEmail) {
			logger.Info("account already exists, skipping", "email", acct.email, "role", acct.role)
			continue
		}
		if err != nil {
			logger.Error("failed to seed account", "email", acct.email, "error", err)
			os.Exit(1)
		}

		if acct.approve {
			if _, err := repo.SetApproval(ctx, u.ID, true); err != nil {
				logger.Error("failed to approve doctor", "email", acct.email, "error", err)
				os.Exit(1)
			}
		}
		logger.Info("seeded account", "email", acct.email, "role", acct.role, "approved", acct.approve)
	}

	facilities := admin.NewMongoFacilityRepository(db)
	hospital := &admin.Hospital{
		Name:    "CareLink General",
		Address: "1 Harbor Way, Springfield",
		Phone:   "555-0199",
	}
	if err := facilities.CreateHospital(ctx, hospital); err != nil {
		logger.Warn("skipping hospital seed", "error", err)
	} else {
		for _, name := range []string{"Cardiology", "Dermatology", "Pediatrics"} {
			dept := &admin.Department{HospitalID: hospital.ID, Name: name}
			if err := facilities.CreateDepartment(ctx, dept); err != nil {
				logger.Warn("skipping department seed", "department", name, "error", err)
			}
		}
	}

	fmt.Printf("Seed complete. Log in with password %q.\n", password)
}
