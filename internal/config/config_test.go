package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
storage:
  data_dir: /var/lib/boundary/data
  sqlite_path: /var/lib/boundary/runs.db
  results_dir: /var/lib/boundary/results

alpaca:
  api_key: file-key
  api_secret: file-secret

logging:
  level: debug
  format: json

gather:
  symbols: [TQQQ, SOXL]
  start_date: "2024-01-01"
  batch_days: 30

strategy:
  initial_capital: 50000
  buy_drop: 0.02

trading:
  symbol: TQQQ
  paper_mode: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boundary.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.DataDir != "/var/lib/boundary/data" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Alpaca.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.Alpaca.APIKey)
	}
	if len(cfg.Gather.Symbols) != 2 || cfg.Gather.Symbols[0] != "TQQQ" {
		t.Errorf("Symbols = %v", cfg.Gather.Symbols)
	}
	if cfg.Gather.BatchDays != 30 {
		t.Errorf("BatchDays = %d, want explicit 30", cfg.Gather.BatchDays)
	}

	// Explicit values win; unset fields keep defaults.
	if cfg.Strategy.InitialCapital != 50000 {
		t.Errorf("InitialCapital = %v, want 50000", cfg.Strategy.InitialCapital)
	}
	if cfg.Strategy.BuyDrop != 0.02 {
		t.Errorf("BuyDrop = %v, want 0.02", cfg.Strategy.BuyDrop)
	}
	if cfg.Strategy.BuildLevels != 5 {
		t.Errorf("BuildLevels = %d, want default 5", cfg.Strategy.BuildLevels)
	}
	if cfg.Gather.RateLimitPerMin != 200 {
		t.Errorf("RateLimitPerMin = %d, want default 200", cfg.Gather.RateLimitPerMin)
	}
	if cfg.Trading.PollSeconds != 60 {
		t.Errorf("PollSeconds = %d, want default 60", cfg.Trading.PollSeconds)
	}
	if !cfg.Trading.PaperMode {
		t.Error("PaperMode not set")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("APCA_API_KEY_ID", "sdk-key")
	t.Setenv("DATA_DIR", "/tmp/override")

	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The canonical SDK variable beats both the file and ALPACA_API_KEY.
	if cfg.Alpaca.APIKey != "sdk-key" {
		t.Errorf("APIKey = %q, want sdk-key", cfg.Alpaca.APIKey)
	}
	if cfg.Alpaca.APISecret != "file-secret" {
		t.Errorf("APISecret = %q, want file value untouched", cfg.Alpaca.APISecret)
	}
	if cfg.Storage.DataDir != "/tmp/override" {
		t.Errorf("DataDir = %q, want env override", cfg.Storage.DataDir)
	}
}

func TestLoadRejectsInvalidStrategy(t *testing.T) {
	bad := `
strategy:
  initial_capital: -1
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("Load accepted negative initial capital")
	}
}

func TestLoadRejectsBadBatchDays(t *testing.T) {
	bad := `
gather:
  batch_days: -5
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("Load accepted negative batch_days")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}
