// Package config loads settings from the environment and an optional .env
// file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string        // BALANCES_ADDR
	DBPath      string        // BALANCES_DB
	ServerURL   string        // BALANCES_SERVER
	Book        string        // BALANCES_BOOK
	LogLevel    string        // BALANCES_LOG_LEVEL
	Development bool          // BALANCES_DEV
	HTTPTimeout time.Duration // BALANCES_HTTP_TIMEOUT
}

// Load reads .env from the working directory when present, then the
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	return LoadFiles()
}

// LoadFiles is Load with explicit .env files. Missing files are skipped.
func LoadFiles(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	dev, err := strconv.ParseBool(getEnv("BALANCES_DEV", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("BALANCES_DEV: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("BALANCES_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("BALANCES_HTTP_TIMEOUT: %w", err)
	}

	return Config{
		Addr:        getEnv("BALANCES_ADDR", ":8888"),
		DBPath:      getEnv("BALANCES_DB", "balances.db"),
		ServerURL:   getEnv("BALANCES_SERVER", "http://localhost:8888"),
		Book:        getEnv("BALANCES_BOOK", "default"),
		LogLevel:    getEnv("BALANCES_LOG_LEVEL", "info"),
		Development: dev,
		HTTPTimeout: timeout,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
