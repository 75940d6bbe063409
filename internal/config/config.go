// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Market    MarketConfig    `yaml:"market"`
	Predictor PredictorConfig `yaml:"predictor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig holds external API credentials
type APIConfig struct {
	Gemini  ProviderConfig `yaml:"gemini"`
	Finnhub ProviderConfig `yaml:"finnhub"`
}

// ProviderConfig holds individual provider settings
type ProviderConfig struct {
	Key       string `yaml:"key"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute
}

// MarketConfig holds market data gateway settings
type MarketConfig struct {
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	RateLimit int           `yaml:"rate_limit"` // Yahoo requests per minute
}

// PredictorConfig selects the prediction model
type PredictorConfig struct {
	Mode      string `yaml:"mode"`       // naive or gnn
	ModelPath string `yaml:"model_path"` // weights file for gnn mode
}

// DefaultConfig returns the default configuration.
// A missing Gemini key is a supported degraded mode, not a startup failure.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8000,
		},
		API: APIConfig{
			Gemini: ProviderConfig{
				Key: os.Getenv("GEMINI_API_KEY"),
			},
			Finnhub: ProviderConfig{
				Key:       os.Getenv("FINNHUB_API_KEY"),
				RateLimit: 60,
			},
		},
		Market: MarketConfig{
			CacheTTL:  5 * time.Minute,
			RateLimit: 60,
		},
		Predictor: PredictorConfig{
			Mode:      "naive",
			ModelPath: "models/best_model.pth",
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.API.Gemini.Key = key
	}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		cfg.API.Finnhub.Key = key
	}
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Server.Port)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Predictor.Mode != "naive" && c.Predictor.Mode != "gnn" {
		return fmt.Errorf("predictor mode must be naive or gnn, got %q", c.Predictor.Mode)
	}
	if c.Market.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	return nil
}
