// Package config reads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/obra/internal/domain"
)

type Config struct {
	// DBPath is the SQLite file used when DatabaseURL is empty.
	DBPath      string
	DatabaseURL string
	HTTPAddress string

	EventsEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string

	CatalogPath     string
	LogUseCases     bool
	RecurrenceWeeks int
}

// UsesPostgres reports whether storage should go to Postgres.
func (c Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from the environment. Values in the .env file at
// dotenvPath fill in whatever the real environment leaves unset; a missing
// file is not an error.
func Load(dotenvPath string) (Config, error) {
	fileEnv := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			fileEnv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", dotenvPath, err)
		}
	}
	env := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fileEnv[key]
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".obra")

	cfg := Config{
		DBPath:          getEnv(env, "OBRA_DB", filepath.Join(dataDir, "obra.db")),
		DatabaseURL:     env("OBRA_DATABASE_URL"),
		HTTPAddress:     getEnv(env, "OBRA_HTTP_ADDRESS", ":8080"),
		EventsEnabled:   getBoolEnv(env, "OBRA_EVENTS_ENABLED", false),
		KafkaBrokers:    splitAndTrim(getEnv(env, "OBRA_KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      getEnv(env, "OBRA_KAFKA_TOPIC", "obra.activities"),
		CatalogPath:     env("OBRA_CATALOG"),
		LogUseCases:     getBoolEnv(env, "OBRA_LOG_USE_CASES", false),
		RecurrenceWeeks: getIntEnv(env, "OBRA_RECURRENCE_WEEKS", domain.DefaultRecurrenceWeeks),
	}
	if cfg.RecurrenceWeeks <= 0 {
		cfg.RecurrenceWeeks = domain.DefaultRecurrenceWeeks
	}

	if cfg.CatalogPath == "" {
		// ./catalog.yaml wins during development.
		if stat, err := os.Stat("catalog.yaml"); err == nil && !stat.IsDir() {
			cfg.CatalogPath = "catalog.yaml"
		} else {
			cfg.CatalogPath = filepath.Join(dataDir, "catalog.yaml")
		}
	}
	return cfg, nil
}

func getEnv(env func(string) string, key, fallback string) string {
	if v := env(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(env func(string) string, key string, fallback bool) bool {
	if v := env(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(env func(string) string, key string, fallback int) int {
	if v := env(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
