package library

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the environment-driven application configuration.
type Config struct {
	DBPath   string `env:"LIBRARY_DB_PATH" envDefault:"library.db"`
	LogLevel string `env:"LIBRARY_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one is present.
func LoadConfig() (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to
// info for unrecognized names.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
