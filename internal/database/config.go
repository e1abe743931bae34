package database

import (
	"fmt"
	"time"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (mongo, postgres, sqlite)
	Driver string

	// MongoDB-specific configuration
	MongoURI      string
	MongoDatabase string

	// PostgreSQL-specific configuration
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLite-specific configuration
	Path string

	// RetryDelays are the waits between connection attempts; len+1 attempts are made
	RetryDelays []time.Duration
}

// DefaultRetryDelays is exponential backoff over five attempts
var DefaultRetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, MongoDatabase: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.MongoDatabase, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// DSN builds a Data Source Name string based on the driver
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres", "postgresql":
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite", "":
		return c.Path
	case "mongo":
		return c.MongoURI
	default:
		return ""
	}
}

func (c *DatabaseConfig) retryDelays() []time.Duration {
	if c.RetryDelays == nil {
		return DefaultRetryDelays
	}
	return c.RetryDelays
}
