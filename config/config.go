// Package config loads the application configuration from a YAML file and
// applies defaults and validation before anything else is wired up.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agenthub/logging"
)

// ModelConfig selects the completion provider backing the default agent.
type ModelConfig struct {
	Provider string `yaml:"provider"` // "openai", "anthropic" or "mock"
	Name     string `yaml:"name"`     // provider-specific model identifier
}

// SchedulerConfig controls the daily prompt scheduler.
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Timezone string `yaml:"timezone"` // IANA name, defaults to Local
}

// LoggingConfig controls the slog-backed logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" or "json"
}

// Config is the full application configuration.
type Config struct {
	// AppKeyword is the trigger word that prefixes agent switch requests.
	AppKeyword string `yaml:"app_keyword"`
	// DatabasePath is the SQLite file; empty selects the in-memory store.
	DatabasePath string `yaml:"database_path"`
	// LocalesDir holds one YAML translation catalog per language code.
	LocalesDir string          `yaml:"locales_dir"`
	Model      ModelConfig     `yaml:"model"`
	Scheduler  SchedulerConfig `yaml:"scheduler"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		AppKeyword: "agent",
		Model:      ModelConfig{Provider: "openai"},
		Scheduler:  SchedulerConfig{Enabled: true},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates a YAML configuration file. Missing fields keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks constraints a zero-value or merged configuration can break.
func (c Config) Validate() error {
	if c.AppKeyword == "" {
		return fmt.Errorf("app_keyword must not be empty")
	}
	switch c.Model.Provider {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	if c.Scheduler.Timezone != "" {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			return fmt.Errorf("scheduler timezone: %w", err)
		}
	}
	return nil
}

// LoggerConfig converts the logging section into the logging package's
// configuration.
func (c LoggingConfig) LoggerConfig() *logging.Config {
	level := slog.LevelInfo
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return &logging.Config{Level: level, Format: c.Format}
}

// Location resolves the scheduler timezone, defaulting to the local zone.
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
