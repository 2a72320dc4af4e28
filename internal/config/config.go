package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; DATABASE_URL and JWT_SECRET are required.
type Config struct {
	// Application
	Environment string
	Version     string

	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrationsPath string

	// Access tokens
	JWTSecret    string
	JWTIssuer    string
	JWTAccessTTL time.Duration

	// Health
	HealthCheckTimeout  time.Duration
	HealthProbeInterval time.Duration

	// Requests per second allowed per client IP on /api/v1
	RateLimitPerClient int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Version:     getEnv("APP_VERSION", "1.0.0"),

		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL:    dbURL,
		DBMaxConns:     int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:     int32(getInt("DB_MIN_CONNS", 5)),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		JWTSecret:    secret,
		JWTIssuer:    getEnv("JWT_ISSUER", "accounts-api"),
		JWTAccessTTL: getDuration("JWT_ACCESS_TTL", 15*time.Minute),

		HealthCheckTimeout:  getDuration("HEALTH_CHECK_TIMEOUT", 2*time.Second),
		HealthProbeInterval: getPositiveDuration("HEALTH_PROBE_INTERVAL", 15*time.Second),

		RateLimitPerClient: getPositiveInt("RATE_LIMIT_PER_CLIENT", 20),
	}, nil
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// getPositiveInt ignores zero and negative values: a zero-sized bucket would
// reject every request.
func getPositiveInt(key string, defaultVal int) int {
	if n := getInt(key, defaultVal); n > 0 {
		return n
	}
	return defaultVal
}

// getPositiveDuration ignores zero and negative values, which time.NewTicker
// rejects with a panic.
func getPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	if d := getDuration(key, defaultVal); d > 0 {
		return d
	}
	return defaultVal
}
