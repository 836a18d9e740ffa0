// Package config builds the service configuration from the environment so
// main stays lean. The minimum-age threshold is carried here explicitly and
// handed to the user service at construction; nothing reads it ambiently.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultMinAge applies when USER_MIN_AGE is unset or unparseable.
const DefaultMinAge = 18

// Config captures everything the server needs at startup.
type Config struct {
	Addr        string
	DatabaseURL string
	MinAge      int
	LogLevel    slog.Level
}

// FromEnv builds a Config from environment variables, loading a local .env
// file first when one exists.
func FromEnv() Config {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return Config{
		Addr:        envOr("USERS_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MinAge:      envIntOr("USER_MIN_AGE", DefaultMinAge),
		LogLevel:    parseLogLevel(os.Getenv("LOG_LEVEL")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
