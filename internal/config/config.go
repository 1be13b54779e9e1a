// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable, e.g. LIQUORLOCKER_API_URL.
const EnvPrefix = "LIQUORLOCKER"

// Config holds the defaults for every command. Flags override them.
type Config struct {
	// APIURL is the inventory backend the client talks to.
	APIURL string `envconfig:"API_URL" default:"http://localhost:8080"`
	// APIKey is sent as X-API-Key. It is the backend key, not the AI
	// provider key kept in local storage.
	APIKey string `envconfig:"API_KEY"`
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"0s"`

	// DB is the SQLite file holding local storage and, for serve, the
	// reference inventory.
	DB string `envconfig:"DB" default:"liquorlocker.sqlite3"`
	// Addr is the listen address of serve.
	Addr           string   `envconfig:"ADDR" default:":8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug(".env file not loaded, relying on environment", "error", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
