// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// MongoDB connection
	MongoURI string
	MongoDB  string

	// Redis (session registry)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Authentication
	JWTSecret         string
	AccessTokenTTL    time.Duration
	MaxFailedAttempts int
	LockoutDuration   time.Duration

	// Development seed account
	SeedEnabled       bool
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		MongoURI: envOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  envOrDefault("MONGODB_DB", "inkwell"),

		RedisHost:     envOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     envOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envOrDefaultInt("REDIS_DB", 0),

		JWTSecret:         envOrDefault("JWT_SECRET", "changeme"),
		AccessTokenTTL:    time.Duration(envOrDefaultInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		MaxFailedAttempts: envOrDefaultInt("MAX_FAILED_LOGIN_ATTEMPTS", 5),
		LockoutDuration:   time.Duration(envOrDefaultInt("ACCOUNT_LOCKOUT_DURATION_MINUTES", 15)) * time.Minute,

		SeedEnabled:       envOrDefaultBool("ENABLE_SEED_DATA", false),
		SeedAdminEmail:    envOrDefault("DEFAULT_USER_EMAIL", "admin@inkwell.local"),
		SeedAdminPassword: envOrDefault("DEFAULT_USER_PASSWORD", "changeme"),
		SeedAdminName:     envOrDefault("DEFAULT_USER_FULL_NAME", "Administrator"),
	}

	if cfg.Env == "production" {
		if cfg.JWTSecret == "changeme" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if cfg.SeedEnabled && cfg.SeedAdminPassword == "changeme" {
			return nil, fmt.Errorf("DEFAULT_USER_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// RedisAddr returns the Redis address (host:port).
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable; non-numeric
// values fall back to the default.
func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// envOrDefaultBool reads a boolean environment variable ("true", "1", ...).
func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
