package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Upstream hospital API
	HospitalAPIURL string
	HTTPTimeout    time.Duration
	ProbeTimeout   time.Duration
	ProbeInterval  time.Duration

	// Retry policy (immutable, fixed at construction)
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64

	// Outbound concurrency bound
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Admin panel gate. AdminPasswordHash is a bcrypt hash; the default
	// is a development credential, override in production.
	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string
	JWTAccessTTL      time.Duration

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HospitalAPIURL: getEnv("HOSPITAL_API_URL", "http://localhost:3000"),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		ProbeTimeout:   getEnvDuration("PROBE_TIMEOUT", 5*time.Second),
		ProbeInterval:  getEnvDuration("PROBE_INTERVAL", 2*time.Second),

		MaxAttempts:       getEnvInt("MAX_ATTEMPTS", 3),
		BaseDelay:         getEnvDuration("BASE_DELAY", 1*time.Second),
		MaxDelay:          getEnvDuration("MAX_DELAY", 10*time.Second),
		BackoffMultiplier: getEnvFloat("BACKOFF_MULTIPLIER", 2.0),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		// bcrypt("admin123"), cost 12. Override in production.
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH",
			"$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
		JWTSecret:    getEnv("JWT_SECRET", "hospadmin-default-dev-secret-change-me"),
		JWTAccessTTL: getEnvDuration("JWT_ACCESS_TTL", 1*time.Hour),

		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "*")},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
