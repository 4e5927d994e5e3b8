package config

import (
	"time"

	redisclient "github.com/vietddude/blockworker/internal/infra/redis"
	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig       `yaml:"server"`
	Logging    LoggingConfig      `yaml:"logging"`
	Blockchain BlockchainConfig   `yaml:"blockchain"`
	Redis      redisclient.Config `yaml:"redis"` // empty URL disables the token cache
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// BlockchainConfig holds the node endpoint and the retry policy.
type BlockchainConfig struct {
	RPCURL              string        `yaml:"rpc_url"`
	DefaultRetryTimeout time.Duration `yaml:"rpc_call_default_retry_timeout"`
	QuickRetryTimeout   time.Duration `yaml:"rpc_call_quick_retry_timeout"`
	QuickRetryCodes     []string      `yaml:"quick_retry_codes"` // empty = built-in network codes
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	PollInterval        time.Duration `yaml:"poll_interval"` // head polling when subscriptions are unavailable
}

// Retry returns the invoker policy.
func (c BlockchainConfig) Retry() resilience.Config {
	cfg := resilience.Config{
		QuickRetryTimeout:   c.QuickRetryTimeout,
		DefaultRetryTimeout: c.DefaultRetryTimeout,
	}
	if len(c.QuickRetryCodes) > 0 {
		cfg.QuickRetryCodes = c.QuickRetryCodes
	}
	return cfg
}

// Provider returns the JSON-RPC provider settings.
func (c BlockchainConfig) Provider() provider.Config {
	return provider.Config{
		URL:            c.RPCURL,
		RequestTimeout: c.RequestTimeout,
		PollInterval:   c.PollInterval,
	}
}
