package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port            string
	Environment     string
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string

	// Flash messages are carried in a signed cookie
	FlashSecret string

	// Calendar days for "today" stats are computed in this zone
	Location *time.Location

	// Heal amount used when the form omits one or sends garbage
	DefaultHealAmount int
}

// Load reads configuration from the environment. A .env file in the
// working directory, if present, fills in variables that are not set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout:   time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		DatabaseURL:       getEnv("DATABASE_URL", "sqlite://kick_danila.db"),
		FlashSecret:       getEnv("FLASH_SECRET", ""),
		Location:          loc,
		DefaultHealAmount: getEnvInt("HEAL_DEFAULT", 20),
	}

	if cfg.FlashSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("FLASH_SECRET environment variable is required")
		}
		cfg.FlashSecret = "kick-danila-development-secret"
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
