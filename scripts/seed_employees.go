package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/auth"
	"github.com/franciscosanchezn/gin-employee-api/internal/config"
	"github.com/franciscosanchezn/gin-employee-api/internal/database"
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/franciscosanchezn/gin-employee-api/internal/store"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// seedAccount is a seeded employee together with its plaintext password
type seedAccount struct {
	employee models.Employee
	password string
}

func seedAccounts() []seedAccount {
	return []seedAccount{
		{
			employee: models.Employee{
				Name:       "Admin User",
				Email:      "admin@example.com",
				Age:        30,
				Class:      "Administration",
				Subjects:   []string{"Management", "Operations", "Leadership"},
				Attendance: 95,
				Role:       models.RoleAdmin,
			},
			password: "admin123",
		},
		{
			employee: models.Employee{
				Name:       "First Employee",
				Email:      "firstemployee@example.com",
				Age:        30,
				Class:      "Software Engineering",
				Subjects:   []string{"Testing", "Automation", "Selenium"},
				Attendance: 88,
				Role:       models.RoleEmployee,
				Flagged:    true,
			},
			password: "password123",
		},
	}
}

func main() {
	reset := flag.Bool("reset", true, "Delete every employee before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
	log.SetFormatter(&log.JSONFormatter{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, closeStore, err := store.Open(ctx, databaseConfigFromEnv())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer closeStore(ctx)

	if err := s.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	created, err := seedEmployees(ctx, s, *reset, auth.HashPassword)
	if err != nil {
		log.WithError(err).Fatal("Failed to seed employees")
	}

	for _, account := range created {
		fmt.Printf("✓ %s (%s) password: %s\n", account.employee.Email, account.employee.Role, account.password)
	}
}

// seedEmployees inserts the seed accounts. Without reset, accounts whose email already exists are left alone.
func seedEmployees(ctx context.Context, s store.EmployeeStore, reset bool, hash func(string) (string, error)) ([]seedAccount, error) {
	if reset {
		if err := s.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("delete employees: %w", err)
		}
	}

	var created []seedAccount
	for _, account := range seedAccounts() {
		existing, err := s.FindByEmail(ctx, account.employee.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.WithField("email", account.employee.Email).Info("Employee already exists, skipping")
			continue
		}

		account.employee.PasswordHash, err = hash(account.password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.Create(ctx, &account.employee); err != nil {
			return nil, fmt.Errorf("create %s: %w", account.employee.Email, err)
		}
		created = append(created, account)
	}
	return created, nil
}

// databaseConfigFromEnv reads only the database settings so seeding does not need a signing secret
func databaseConfigFromEnv() database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:        config.GetEnvWithDefault("DB_DRIVER", config.DriverMongo),
		MongoURI:      config.GetEnvWithDefault("MONGODB_URI", ""),
		MongoDatabase: config.GetEnvWithDefault("MONGODB_DATABASE", "employees"),
		URL:           config.GetEnvWithDefault("DATABASE_URL", ""),
		Host:          config.GetEnvWithDefault("DB_HOST", "localhost"),
		Port:          config.GetEnvWithDefault("DB_PORT", "5432"),
		User:          config.GetEnvWithDefault("DB_USER", "user"),
		Password:      config.GetEnvWithDefault("DB_PASSWORD", "password"),
		Name:          config.GetEnvWithDefault("DB_NAME", "employees"),
		SSLMode:       config.GetEnvWithDefault("DB_SSLMODE", "disable"),
		Path:          config.GetEnvWithDefault("DB_PATH", "employees.sqlite"),
	}
}
