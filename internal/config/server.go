package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server holds the API server configuration.
// Values come from the environment, optionally seeded from a .env file.
type Server struct {
	Port        string
	Environment string

	// DBDriver is "postgres" or "sqlite". When empty it is inferred from DatabaseURL.
	DBDriver    string
	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	LogLevel string
	LogFile  string

	OTelEnabled  bool
	OTelEndpoint string
	OTelSampling float64

	CORSOrigins []string
}

// LoadServer reads the server configuration from environment variables
func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:          getEnvOrDefault("PORT", "8080"),
		Environment:   getEnvOrDefault("ENVIRONMENT", "development"),
		DBDriver:      strings.ToLower(os.Getenv("DB_DRIVER")),
		DatabaseURL:   getEnvOrDefault("DATABASE_URL", "misinfodetector.db"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:       getEnvOrDefault("LOG_FILE", "server.log"),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}

	ttl, err := time.ParseDuration(getEnvOrDefault("CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	cfg.OTelEnabled, err = strconv.ParseBool(getEnvOrDefault("OTEL_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}

	cfg.OTelSampling, err = strconv.ParseFloat(getEnvOrDefault("OTEL_SAMPLING_RATE", "1.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_SAMPLING_RATE: %w", err)
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = InferDriver(cfg.DatabaseURL)
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode
func (s *Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// RedisEnabled reports whether a Redis host was configured
func (s *Server) RedisEnabled() bool {
	return s.RedisHost != ""
}

// InferDriver picks a database driver from a connection string
func InferDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return "postgres"
	default:
		return "sqlite"
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
