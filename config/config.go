package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIToken is returned by RequireAPIToken when ENTSOE_API_TOKEN is unset.
var ErrMissingAPIToken = errors.New("ENTSOE_API_TOKEN is required")

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=spotpulse
//	POSTGRES_SSLMODE=disable
//	ENTSOE_API_TOKEN=...
//	FETCH_ZONES=FI,SE3
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Entsoe   EntsoeConfig   // transparency platform client settings
	Fetch    FetchConfig    // ingestion and scheduling
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// EntsoeConfig configures the day-ahead price client.
type EntsoeConfig struct {
	APIToken   string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// FetchConfig controls which zones are ingested, how far ahead and how often.
type FetchConfig struct {
	Zones    string // comma separated zone codes, empty for all
	Hours    int
	Parallel int
	Schedule string // cron spec with a leading seconds field
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "spotpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("ENTSOE_API_TOKEN", "")
	viper.SetDefault("ENTSOE_BASE_URL", "https://web-api.tp.entsoe.eu/api")
	viper.SetDefault("ENTSOE_TIMEOUT", "30s")
	viper.SetDefault("ENTSOE_MAX_RETRIES", 3)

	viper.SetDefault("FETCH_ZONES", "")
	viper.SetDefault("FETCH_HOURS", 24)
	viper.SetDefault("FETCH_PARALLEL", 0)
	viper.SetDefault("FETCH_SCHEDULE", "0 15 13 * * *")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Entsoe: EntsoeConfig{
			APIToken:   strings.TrimSpace(viper.GetString("ENTSOE_API_TOKEN")),
			BaseURL:    viper.GetString("ENTSOE_BASE_URL"),
			Timeout:    viper.GetDuration("ENTSOE_TIMEOUT"),
			MaxRetries: viper.GetInt("ENTSOE_MAX_RETRIES"),
		},
		Fetch: FetchConfig{
			Zones:    viper.GetString("FETCH_ZONES"),
			Hours:    viper.GetInt("FETCH_HOURS"),
			Parallel: viper.GetInt("FETCH_PARALLEL"),
			Schedule: viper.GetString("FETCH_SCHEDULE"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	// Validate critical fields
	validateConfig()
}

// DSN builds the connection string used by database/sql.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// RequireAPIToken reports ErrMissingAPIToken when no token is configured.
// Only the modes that talk to the transparency platform call it.
func (c Config) RequireAPIToken() error {
	if c.Entsoe.APIToken == "" {
		return ErrMissingAPIToken
	}
	return nil
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v", missing)
	}
}
