package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	ServerPort     int
	LogLevel       string

	SessionLifetime    time.Duration
	CORSAllowedOrigins []string

	OAuth OAuth
}

type OAuth struct {
	DiscordKey         string
	DiscordSecret      string
	DiscordCallbackURL string

	GoogleKey         string
	GoogleSecret      string
	GoogleCallbackURL string
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an arbitrary lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseDriver: valueOr(getenv("DATABASE_DRIVER"), DriverSQLite),
		DatabaseURL:    getenv("DATABASE_URL"),
		LogLevel:       valueOr(getenv("LOG_LEVEL"), "info"),
		OAuth: OAuth{
			DiscordKey:         getenv("DISCORD_KEY"),
			DiscordSecret:      getenv("DISCORD_SECRET"),
			DiscordCallbackURL: getenv("DISCORD_CALLBACK_URL"),
			GoogleKey:          getenv("GOOGLE_KEY"),
			GoogleSecret:       getenv("GOOGLE_SECRET"),
			GoogleCallbackURL:  getenv("GOOGLE_CALLBACK_URL"),
		},
	}

	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "tourney.db?_journal_mode=WAL"
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL environment variable is not set")
		}
	default:
		return nil, errors.Newf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	port, err := strconv.Atoi(valueOr(getenv("SERVER_PORT"), "8080"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid SERVER_PORT environment variable")
	}
	if port <= 0 || port > 65535 {
		return nil, errors.Newf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	lifetime, err := time.ParseDuration(valueOr(getenv("SESSION_LIFETIME"), "24h"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid SESSION_LIFETIME environment variable")
	}
	cfg.SessionLifetime = lifetime

	for _, origin := range strings.Split(valueOr(getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:5173"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
