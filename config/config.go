// Package config loads the settings of the ewt tool.
//
// Settings come, by increasing priority, from the built-in defaults, the
// TOML files given to Load, an optional .env file and EQUITYWISE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/equitywise"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "equitywise.toml"

// Config holds all configuration for ewt.
type Config struct {
	Dataset string        `toml:"dataset"` // JSONL file or folder
	Archive string        `toml:"archive"` // SQLite file
	Engine  EngineConfig  `toml:"engine"`
	Logging LoggingConfig `toml:"logging"`
}

// EngineConfig mirrors equitywise.Config in TOML friendly types.
type EngineConfig struct {
	RateWindowDays  int    `toml:"rate_window_days"`
	PriceWindowDays int    `toml:"price_window_days"`
	LongTermDays    int    `toml:"long_term_days"`
	FAThresholdINR  string `toml:"fa_threshold_inr"`
	Sampling        string `toml:"sampling"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with the statutory defaults.
func NewDefaultConfig() *Config {
	def := equitywise.DefaultConfig()
	return &Config{
		Dataset: "equitywise.jsonl",
		Archive: "equitywise.db",
		Engine: EngineConfig{
			RateWindowDays:  def.RateWindowDays,
			PriceWindowDays: def.PriceWindowDays,
			LongTermDays:    def.LongTermDays,
			FAThresholdINR:  def.FAThreshold.String(),
			Sampling:        def.Sampling.String(),
		},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// Load loads configuration files in order, later files overriding earlier
// ones. Missing files are skipped. A .env file in the working directory is
// loaded before the environment overrides are applied.
func Load(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Core(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("EQUITYWISE_DATASET"); v != "" {
		cfg.Dataset = v
	}
	if v := os.Getenv("EQUITYWISE_ARCHIVE"); v != "" {
		cfg.Archive = v
	}
	if v := os.Getenv("EQUITYWISE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EQUITYWISE_SAMPLING"); v != "" {
		cfg.Engine.Sampling = v
	}
	if v := os.Getenv("EQUITYWISE_FA_THRESHOLD_INR"); v != "" {
		cfg.Engine.FAThresholdINR = v
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"EQUITYWISE_RATE_WINDOW_DAYS", &cfg.Engine.RateWindowDays},
		{"EQUITYWISE_PRICE_WINDOW_DAYS", &cfg.Engine.PriceWindowDays},
		{"EQUITYWISE_LONG_TERM_DAYS", &cfg.Engine.LongTermDays},
	}
	for _, o := range ints {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", o.name, v, err)
		}
		*o.dst = n
	}
	return nil
}

// Core returns the validated engine configuration.
func (c *Config) Core() (equitywise.Config, error) {
	threshold, err := decimal.NewFromString(c.Engine.FAThresholdINR)
	if err != nil {
		return equitywise.Config{}, fmt.Errorf("invalid fa_threshold_inr %q: %w", c.Engine.FAThresholdINR, err)
	}
	sampling, err := equitywise.ParseSampling(c.Engine.Sampling)
	if err != nil {
		return equitywise.Config{}, err
	}
	core := equitywise.Config{
		RateWindowDays:  c.Engine.RateWindowDays,
		PriceWindowDays: c.Engine.PriceWindowDays,
		LongTermDays:    c.Engine.LongTermDays,
		FAThreshold:     threshold,
		Sampling:        sampling,
	}
	if err := core.Validate(); err != nil {
		return equitywise.Config{}, fmt.Errorf("invalid engine configuration: %w", err)
	}
	return core, nil
}
