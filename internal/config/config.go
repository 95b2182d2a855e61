// Package config reads the app's configuration from the environment.
// Everything has a working default so the binary runs with no setup at
// all; without backend credentials the app simply runs unauthenticated
// against the stub client.
package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	// BackendURL and BackendKey identify the hosted auth/database
	// service. Both empty means the stub backend is used.
	BackendURL string
	BackendKey string

	// CallbackAddr is the listen address for the auth return-flow server.
	// Empty disables it.
	CallbackAddr string

	// DefaultMinutes seeds the countdown length for a fresh install.
	DefaultMinutes int

	// Debug enables file logging.
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:     os.Getenv("SELAH_BACKEND_URL"),
		BackendKey:     os.Getenv("SELAH_BACKEND_KEY"),
		CallbackAddr:   getEnv("SELAH_CALLBACK_ADDR", "127.0.0.1:8787"),
		DefaultMinutes: getEnvInt("SELAH_DEFAULT_MINUTES", 25),
		Debug:          os.Getenv("SELAH_DEBUG") != "",
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BackendURL != "" && c.BackendKey == "" {
		return errors.New("SELAH_BACKEND_KEY is required when SELAH_BACKEND_URL is set")
	}
	if c.BackendURL == "" && c.BackendKey != "" {
		return errors.New("SELAH_BACKEND_URL is required when SELAH_BACKEND_KEY is set")
	}
	if c.DefaultMinutes < 1 || c.DefaultMinutes > 240 {
		return errors.New("SELAH_DEFAULT_MINUTES must be between 1 and 240")
	}
	return nil
}

// BackendConfigured reports whether a real backend should be used.
func (c *Config) BackendConfigured() bool {
	return c.BackendURL != "" && c.BackendKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
