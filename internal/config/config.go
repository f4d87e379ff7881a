// Package config loads lotbook settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/lotbook/internal/logger"
)

// Environment variable names.
const (
	EnvDataDir       = "LOTBOOK_DATA_DIR"
	EnvStore         = "LOTBOOK_STORE"
	EnvTopN          = "LOTBOOK_TOP_N"
	EnvMaxCells      = "LOTBOOK_MAX_CELLS"
	EnvAllAttributes = "LOTBOOK_ALL_ATTRIBUTES"
	EnvGCInterval    = "LOTBOOK_GC_INTERVAL"
	EnvLogLevel      = "LOTBOOK_LOG_LEVEL"
	EnvLogFile       = "LOTBOOK_LOG_FILE"
)

// Store backends.
const (
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	DataDir       string
	Store         string
	TopN          int
	MaxCells      int
	AllAttributes bool
	GCInterval    time.Duration
	LogLevel      logger.Level
	LogFile       string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:    ".lotbook",
		Store:      StoreBadger,
		TopN:       3,
		MaxCells:   1 << 20,
		GCInterval: 10 * time.Minute,
		LogLevel:   logger.LevelNormal,
		LogFile:    "stderr",
	}
}

// Load reads the given .env files (".env" when none are given) and then
// the environment. Variables already set in the environment win over the
// files. Missing files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a config from defaults overridden by environment variables.
func FromEnv() (*Config, error) {
	cfg := Default()

	cfg.DataDir = getEnvWithDefault(EnvDataDir, cfg.DataDir)
	cfg.Store = strings.ToLower(getEnvWithDefault(EnvStore, cfg.Store))
	cfg.LogFile = getEnvWithDefault(EnvLogFile, cfg.LogFile)

	var err error
	if cfg.TopN, err = intEnv(EnvTopN, cfg.TopN); err != nil {
		return nil, err
	}
	if cfg.MaxCells, err = intEnv(EnvMaxCells, cfg.MaxCells); err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvAllAttributes); v != "" {
		if cfg.AllAttributes, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvAllAttributes, err)
		}
	}
	if v := os.Getenv(EnvGCInterval); v != "" {
		if cfg.GCInterval, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvGCInterval, err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if cfg.LogLevel, err = logger.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks field ranges and the store backend name.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreBadger, StoreMemory)
	}
	if c.Store == StoreBadger && c.DataDir == "" {
		return fmt.Errorf("badger store needs a data directory")
	}
	if c.TopN < 0 {
		return fmt.Errorf("top-n must not be negative, got %d", c.TopN)
	}
	if c.GCInterval <= 0 {
		return fmt.Errorf("gc interval must be positive, got %v", c.GCInterval)
	}
	return nil
}

// getEnvWithDefault returns the value of the environment variable or the default value.
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
