package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/database"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Supported values for DB_DRIVER
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConfigurationError reports a missing or malformed setting. The process must not serve traffic with it.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port            int           `json:"port"`
	Host            string        `json:"host"`
	Environment     string        `json:"environment"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Database configuration
	DBDriver      string `json:"db_driver"`
	MongoURI      string `json:"mongodb_uri"`
	MongoDatabase string `json:"mongodb_database"`
	DatabaseURL   string `json:"database_url"`
	DBHost        string `json:"db_host"`
	DBPort        string `json:"db_port"`
	DBName        string `json:"db_name"`
	DBUser        string `json:"db_user"`
	DBPassword    string `json:"db_password"`
	DBSSLMode     string `json:"db_sslmode"`
	DBPath        string `json:"db_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret          string        `json:"jwt_secret"`
	TokenTTL           time.Duration `json:"token_ttl"`
	CORSAllowedOrigins []string      `json:"cors_allowed_origins"`

	// GraphQL configuration
	GraphQLMaxDepth int           `json:"graphql_max_depth"`
	LoaderWait      time.Duration `json:"loader_wait"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, MongoURI: %s, MongoDatabase: %s, DatabaseURL: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], TokenTTL: %s, CORSAllowedOrigins: %v}",
		c.Port, c.Host, c.Environment, c.DBDriver, maskDatabaseURL(c.MongoURI), c.MongoDatabase, maskDatabaseURL(c.DatabaseURL),
		c.DBHost, c.DBName, c.DBUser, c.DBPath, c.LogLevel, c.TokenTTL, c.CORSAllowedOrigins)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It validates the signing secret and the database address for the selected driver
// Returns a *ConfigurationError if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "4000"))
	if err != nil || port <= 0 {
		return nil, &ConfigurationError{Key: "APP_PORT", Reason: "must be a positive integer"}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, &ConfigurationError{Key: "JWT_SECRET", Reason: "is required"}
	}

	tokenTTL, err := getEnvDuration("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	loaderWait, err := getEnvDuration("LOADER_WAIT", 2*time.Millisecond)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:               port,
		Host:               GetEnvWithDefault("APP_HOST", "localhost"),
		Environment:        GetEnvWithDefault("APP_ENV", "development"),
		ShutdownTimeout:    shutdownTimeout,
		DBDriver:           strings.ToLower(GetEnvWithDefault("DB_DRIVER", DriverMongo)),
		MongoURI:           GetEnvWithDefault("MONGODB_URI", ""),
		MongoDatabase:      GetEnvWithDefault("MONGODB_DATABASE", "employees"),
		DatabaseURL:        GetEnvWithDefault("DATABASE_URL", ""),
		DBHost:             GetEnvWithDefault("DB_HOST", ""),
		DBPort:             GetEnvWithDefault("DB_PORT", "5432"),
		DBName:             GetEnvWithDefault("DB_NAME", "employees"),
		DBUser:             GetEnvWithDefault("DB_USER", "user"),
		DBPassword:         GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:          GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:             GetEnvWithDefault("DB_PATH", "employees.sqlite"),
		LogLevel:           GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:          jwtSecret,
		TokenTTL:           tokenTTL,
		CORSAllowedOrigins: allowedOrigins(),
		GraphQLMaxDepth:    GetEnvAsType("GRAPHQL_MAX_DEPTH", 10),
		LoaderWait:         loaderWait,
	}

	if err := config.validateDatabase(); err != nil {
		return nil, err
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// validateDatabase checks that the selected driver has an address to connect to
func (c *Config) validateDatabase() error {
	switch c.DBDriver {
	case DriverMongo, "mongodb":
		c.DBDriver = DriverMongo
		if c.MongoURI == "" {
			return &ConfigurationError{Key: "MONGODB_URI", Reason: "is required when DB_DRIVER=mongo"}
		}
		parsed, err := url.Parse(c.MongoURI)
		if err != nil || (parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv") {
			return &ConfigurationError{Key: "MONGODB_URI", Reason: "must be a mongodb:// or mongodb+srv:// URI"}
		}
	case DriverPostgres, "postgresql":
		c.DBDriver = DriverPostgres
		if c.DatabaseURL == "" && c.DBHost == "" {
			return &ConfigurationError{Key: "DATABASE_URL", Reason: "or DB_HOST is required when DB_DRIVER=postgres"}
		}
		if c.DatabaseURL != "" {
			if _, err := url.ParseRequestURI(c.DatabaseURL); err != nil {
				return &ConfigurationError{Key: "DATABASE_URL", Reason: "has an invalid format"}
			}
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return &ConfigurationError{Key: "DB_PATH", Reason: "is required when DB_DRIVER=sqlite"}
		}
	default:
		return &ConfigurationError{Key: "DB_DRIVER", Reason: fmt.Sprintf("'%s' is not supported (supported: mongo, postgres, sqlite)", c.DBDriver)}
	}
	return nil
}

// allowedOrigins merges the local dev client, FRONTEND_URL and CORS_ALLOWED_ORIGINS
func allowedOrigins() []string {
	origins := []string{"http://localhost:5173"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		origins = append(origins, frontend)
	}
	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Database returns the connection settings for the configured backend
func (c *Config) Database() database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:        c.DBDriver,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
		URL:           c.DatabaseURL,
		Host:          c.DBHost,
		Port:          c.DBPort,
		User:          c.DBUser,
		Password:      c.DBPassword,
		Name:          c.DBName,
		SSLMode:       c.DBSSLMode,
		Path:          c.DBPath,
	}
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	case time.Duration:
		durationValue, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return any(durationValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}

// getEnvDuration parses a duration strictly: a malformed value is a configuration error, not a silent default
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, &ConfigurationError{Key: key, Reason: "must be a positive duration (e.g. 168h)"}
	}
	return d, nil
}
