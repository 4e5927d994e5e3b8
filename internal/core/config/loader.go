package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	bc := &cfg.Blockchain
	if bc.DefaultRetryTimeout == 0 {
		bc.DefaultRetryTimeout = 30 * time.Second
	}
	if bc.QuickRetryTimeout == 0 {
		bc.QuickRetryTimeout = 5 * time.Second
	}
	if bc.RequestTimeout == 0 {
		bc.RequestTimeout = 120 * time.Second
	}
	if bc.PollInterval == 0 {
		bc.PollInterval = 3 * time.Second
	}

	if cfg.Redis.TokenTTL == 0 {
		cfg.Redis.TokenTTL = 24 * time.Hour
	}
}

// Validate checks settings that have no sensible default.
func (c *AppConfig) Validate() error {
	if c.Blockchain.RPCURL == "" {
		return errors.New("blockchain.rpc_url is required")
	}
	if c.Blockchain.DefaultRetryTimeout < 0 || c.Blockchain.QuickRetryTimeout < 0 {
		return errors.New("retry timeouts must not be negative")
	}
	return nil
}
