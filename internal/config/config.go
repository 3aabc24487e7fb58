package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	// AuthJWTSecret verifies caller tokens issued by the external
	// identity provider.
	AuthJWTSecret string

	// PaidAtPolicy controls whether leaving the paid status clears the
	// paid_at timestamp. One of "keep" or "clear".
	PaidAtPolicy string

	Storage StorageConfig
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Driver is one of postgres, mysql, sqlite, mongo.
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	// Path is the database file for the sqlite driver.
	Path string
	// URI is the connection string for the mongo driver.
	URI string

	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
}

const (
	PaidAtKeep  = "keep"
	PaidAtClear = "clear"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:       getenv("APP_SERVICE", "smart-invoice"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		AuthJWTSecret: strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		PaidAtPolicy:  normalizePaidAtPolicy(getenv("INVOICE_PAID_AT_POLICY", PaidAtKeep)),
		Storage: StorageConfig{
			Driver:          strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
			Host:            getenv("DATABASE_HOST", "localhost"),
			Port:            getenv("DATABASE_PORT", "5432"),
			Name:            getenv("DATABASE_NAME", "smartinvoice"),
			User:            getenv("DATABASE_USER", "postgres"),
			Password:        getenv("DATABASE_PASSWORD", ""),
			SSLMode:         getenv("DATABASE_SSLMODE", "disable"),
			Path:            getenv("DATABASE_PATH", "smartinvoice.db"),
			URI:             getenv("MONGO_URI", "mongodb://localhost:27017"),
			MaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
			MaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
			ConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		},
	}
}

func normalizePaidAtPolicy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case PaidAtClear:
		return PaidAtClear
	default:
		return PaidAtKeep
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Module wires configuration for the application.
var Module = fx.Module("config",
	fx.Provide(Load),
)
