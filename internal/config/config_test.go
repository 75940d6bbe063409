package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Predictor.Mode != "naive" {
		t.Errorf("Expected default predictor mode naive, got %q", cfg.Predictor.Mode)
	}
	if cfg.Market.CacheTTL != 5*time.Minute {
		t.Errorf("Expected default cache TTL 5m, got %v", cfg.Market.CacheTTL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9000
market:
  cache_ttl: 1m
  rate_limit: 30
predictor:
  mode: gnn
  model_path: models/test.pth
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Market.CacheTTL != time.Minute {
		t.Errorf("Expected cache TTL 1m, got %v", cfg.Market.CacheTTL)
	}
	if cfg.Predictor.Mode != "gnn" {
		t.Errorf("Expected predictor mode gnn, got %q", cfg.Predictor.Mode)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "8080")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.API.Gemini.Key != "env-key" {
		t.Errorf("Expected env Gemini key, got %q", cfg.API.Gemini.Key)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected env port 8080, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for port 0")
	}

	cfg = DefaultConfig()
	cfg.Predictor.Mode = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown predictor mode")
	}
}

func TestMissingGeminiKeyIsValid(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := DefaultConfig()
	cfg.API.Gemini.Key = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Missing Gemini key must be a supported mode: %v", err)
	}
}
