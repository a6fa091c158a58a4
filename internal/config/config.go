// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080"`

	// AppEnv is "development" or "production". Error details are only
	// exposed to clients in development.
	AppEnv string `envconfig:"APP_ENV" default:"production"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `ignored:"true"`
	CORSRaw     string   `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// StoreDriver selects the persistence backend: postgres or mongo.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// MigrateOnStart applies pending goose migrations at boot.
	MigrateOnStart bool `envconfig:"MIGRATE_ON_START" default:"true"`

	// MongoURI is required for the mongo driver.
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"planoraa"`

	JWTSecret        string        `envconfig:"JWT_SECRET" required:"true"`
	JWTRefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" required:"true"`
	JWTExpire        time.Duration `envconfig:"JWT_EXPIRE" default:"15m"`
	JWTRefreshExpire time.Duration `envconfig:"JWT_REFRESH_EXPIRE" default:"168h"`

	// AMQPURL enables event publishing when set.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"planoraa.events"`

	// OTLPEndpoint enables trace export when set, e.g. "otel-collector:4317".
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// MaxBodyBytes caps request bodies; larger requests get 413.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file, then configuration from environment
// variables. Variables already set in the environment win over .env.
// Returns an error naming any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	cfg.CORSOrigins = splitCSV(cfg.CORSRaw)

	var missing []string
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, cfg.StoreDriver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return Config{}, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
