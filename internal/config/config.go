package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service Ports
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Hosted database (logged-in tier). Empty runs the device tier only.
	DatabaseURL string `env:"DATABASE_URL"`

	// Key-value tier (anonymous users + per-user preference blobs)
	KVDriver      string `env:"KV_DRIVER" default:"redis"` // redis | sqlite
	RedisURL      string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	SQLitePath    string `env:"SQLITE_PATH" default:"./data/animelog.db"`

	// Authentication: tokens are issued by the hosted backend, we only verify them
	AuthJWTSecret string `env:"AUTH_JWT_SECRET" required:"true"`

	// External APIs
	AniListAPIURL string        `env:"ANILIST_API_URL" default:"https://graphql.anilist.co"`
	AnnictAPIURL  string        `env:"ANNICT_API_URL" default:"https://api.annict.com/graphql"`
	AnnictToken   string        `env:"ANNICT_TOKEN"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" default:"6s"`

	// Web Push
	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	VAPIDSubject    string `env:"VAPID_SUBJECT" default:"mailto:admin@animelog.local"`

	// Reminder worker
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" default:"1m"`
	ReminderWorkers  int           `env:"REMINDER_WORKERS" default:"4"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"debug"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional, system env vars still work without it
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Ports
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvString(&config.DatabaseURL, "DATABASE_URL", ""); err != nil {
		return nil, err
	}

	// Key-value tier
	if err := loadEnvString(&config.KVDriver, "KV_DRIVER", "redis"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379/0"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SQLitePath, "SQLITE_PATH", "./data/animelog.db"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.AuthJWTSecret, "AUTH_JWT_SECRET"); err != nil {
		return nil, err
	}

	// External APIs
	if err := loadEnvString(&config.AniListAPIURL, "ANILIST_API_URL", "https://graphql.anilist.co"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AnnictAPIURL, "ANNICT_API_URL", "https://api.annict.com/graphql"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AnnictToken, "ANNICT_TOKEN", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SearchTimeout, "SEARCH_TIMEOUT", 6*time.Second); err != nil {
		return nil, err
	}

	// Web Push
	if err := loadEnvString(&config.VAPIDPublicKey, "VAPID_PUBLIC_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.VAPIDPrivateKey, "VAPID_PRIVATE_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.VAPIDSubject, "VAPID_SUBJECT", "mailto:admin@animelog.local"); err != nil {
		return nil, err
	}

	// Reminder worker
	if err := loadEnvDuration(&config.ReminderInterval, "REMINDER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.ReminderWorkers, "REMINDER_WORKERS", 4); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validDrivers := []string{"redis", "sqlite"}
	if !contains(validDrivers, c.KVDriver) {
		errors = append(errors, fmt.Sprintf("KV_DRIVER must be one of: %s", strings.Join(validDrivers, ", ")))
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// hosted backend secrets are at least 32 chars
	if len(c.AuthJWTSecret) < 32 {
		errors = append(errors, "AUTH_JWT_SECRET should be at least 32 characters long")
	}

	for _, origin := range c.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errors = append(errors, fmt.Sprintf("CORS_ORIGINS entry %q must be * or an http(s) origin", origin))
		}
	}

	if c.ReminderWorkers < 1 {
		errors = append(errors, "REMINDER_WORKERS must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// HostedEnabled reports whether a Postgres backend is configured for the
// logged-in tier.
func (c *Config) HostedEnabled() bool {
	return c.DatabaseURL != ""
}

// PushEnabled reports whether VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
