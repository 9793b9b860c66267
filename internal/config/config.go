// Package config loads and validates the YAML configuration for the
// boundary tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"boundary/internal/strategy"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration shared by the boundary binaries.
type Config struct {
	Storage  Storage         `yaml:"storage"`
	Alpaca   Alpaca          `yaml:"alpaca"`
	Logging  Logging         `yaml:"logging"`
	Gather   GatherConfig    `yaml:"gather"`
	Strategy strategy.Params `yaml:"strategy"`
	Trading  TradingConfig   `yaml:"trading"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
	ResultsDir string `yaml:"results_dir"`
}

// Alpaca holds credentials and endpoints for the Alpaca APIs.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GatherConfig controls the minute-bar download job.
type GatherConfig struct {
	Symbols         []string `yaml:"symbols"`
	StartDate       string   `yaml:"start_date"`
	EndDate         string   `yaml:"end_date"` // empty: latest finished trading day
	BatchDays       int      `yaml:"batch_days"`
	RateLimitPerMin int      `yaml:"rate_limit_per_min"`
}

// TradingConfig defines live/paper execution parameters.
type TradingConfig struct {
	Symbol       string `yaml:"symbol"`
	PaperMode    bool   `yaml:"paper_mode"`
	PollSeconds  int    `yaml:"poll_seconds"`
	LookbackBars int    `yaml:"lookback_bars"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration at path, applies environment variable
// overrides, and validates the strategy parameters. Configuration errors are
// rejected here, before any bar is processed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Strategy: strategy.Default(),
		Gather: GatherConfig{
			BatchDays:       65,
			RateLimitPerMin: 200,
		},
		Trading: TradingConfig{
			PollSeconds:  60,
			LookbackBars: 100,
		},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Strategy.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Gather.BatchDays <= 0 {
		return nil, fmt.Errorf("config %s: gather.batch_days must be positive", path)
	}

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars take priority; these are the canonical names
	// the SDK itself reads.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
