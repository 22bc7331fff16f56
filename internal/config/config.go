package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	// Server
	Port        int
	StoreDriver string
	DBPath      string
	DatabaseURL string
	APIKey      string
	LogLevel    string
	LogFile     string
	// Clients
	APIEndpoint  string
	UseMockAPI   bool
	RoomID       string
	PollInterval time.Duration
	// Check-in flow
	InactivityTimeout       time.Duration
	InactivityCheckInterval time.Duration
	ConfirmationTimeout     time.Duration
	SessionLength           time.Duration
	// Content
	CatalogPath string
	BookingURL  string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		Port:                    envInt("PORT", 8750),
		StoreDriver:             envStr("STORE_DRIVER", DriverSQLite),
		DBPath:                  envStr("SUITES_DB_PATH", "./data/suites.db"),
		DatabaseURL:             envStr("DATABASE_URL", ""),
		APIKey:                  envStr("API_KEY", ""),
		LogLevel:                envStr("LOG_LEVEL", "info"),
		LogFile:                 envStr("LOG_FILE", ""),
		APIEndpoint:             envStrOrEmpty("API_ENDPOINT", "http://localhost:8750"),
		UseMockAPI:              envBool("USE_MOCK_API", false),
		RoomID:                  envStr("ROOM_ID", ""),
		PollInterval:            envDuration("POLL_INTERVAL", 10*time.Second),
		InactivityTimeout:       envDuration("INACTIVITY_TIMEOUT", 60*time.Second),
		InactivityCheckInterval: envDuration("INACTIVITY_CHECK_INTERVAL", 10*time.Second),
		ConfirmationTimeout:     envDuration("CONFIRMATION_TIMEOUT", 60*time.Second),
		SessionLength:           envDuration("SESSION_LENGTH", time.Hour),
		CatalogPath:             envStr("CATALOG_PATH", ""),
		BookingURL:              envStr("BOOKING_URL", "https://www.saunasuites.com"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("SUITES_DB_PATH must not be empty")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of sqlite, postgres, memory, got %q", c.StoreDriver)
	}
	if !c.UseMockAPI && c.APIEndpoint == "" {
		return fmt.Errorf("API_ENDPOINT must not be empty unless USE_MOCK_API is set")
	}
	for name, d := range map[string]time.Duration{
		"POLL_INTERVAL":             c.PollInterval,
		"INACTIVITY_TIMEOUT":        c.InactivityTimeout,
		"INACTIVITY_CHECK_INTERVAL": c.InactivityCheckInterval,
		"CONFIRMATION_TIMEOUT":      c.ConfirmationTimeout,
		"SESSION_LENGTH":            c.SessionLength,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envStrOrEmpty is envStr except that a variable set to "" stays empty.
func envStrOrEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go duration strings ("90s", "2m") or plain seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
