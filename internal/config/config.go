// Package config reads command line defaults from the environment.
package config

import (
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds application configuration
type Config struct {
	LogLevel         string
	LogPretty        bool
	Backend          string  // fake backend name or path to a backend YAML file
	Seed             *uint64 // nil leaves shot noise unseeded
	DefaultPrecision float64
	Renderer         string
}

// Load reads configuration from environment variables. Values from the
// given .env files, or from ./.env when none are given, fill in variables
// the environment leaves unset.
func Load(envFiles ...string) (*Config, error) {
	fileEnv, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}
	env := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}

	cfg := &Config{
		LogLevel: getEnv(env, "QDEBUG_LOG_LEVEL", "info"),
		Backend:  getEnv(env, "QDEBUG_BACKEND", "fake_vigo"),
		Renderer: getEnv(env, "QDEBUG_RENDERER", "terminal"),
	}
	if cfg.LogPretty, err = getEnvAsBool(env, "QDEBUG_LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if cfg.DefaultPrecision, err = getEnvAsFloat(env, "QDEBUG_DEFAULT_PRECISION", 0); err != nil {
		return nil, err
	}
	if v := env("QDEBUG_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "QDEBUG_SEED")
		}
		cfg.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return errors.Errorf("QDEBUG_LOG_LEVEL %q is not one of debug, info, warn or error", c.LogLevel)
	}
	if c.Backend == "" {
		return errors.New("QDEBUG_BACKEND is required")
	}
	if c.DefaultPrecision < 0 {
		return errors.Errorf("QDEBUG_DEFAULT_PRECISION %g is negative", c.DefaultPrecision)
	}
	return nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return map[string]string{}, nil
		}
		files = []string{".env"}
	}
	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrap(err, "read env file")
	}
	return env, nil
}

// Helper functions
func getEnv(env func(string) string, key, defaultValue string) string {
	if value := env(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(env func(string) string, key string, defaultValue bool) (bool, error) {
	value := env(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	return b, errors.Wrap(err, key)
}

func getEnvAsFloat(env func(string) string, key string, defaultValue float64) (float64, error) {
	value := env(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	return f, errors.Wrap(err, key)
}
