package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client is the connection behind TokenCache. Token metadata is the only
// thing the worker keeps in Redis.
type Client struct {
	rdb *redis.Client
}

// Config locates the token metadata store. An empty URL disables caching.
// Password, when set, overrides any credentials in URL. TokenTTL bounds how
// long a symbol/decimals/name entry is served before the chain is asked again.
type Config struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// NewClient connects to the token metadata store and fails fast if it does
// not answer a PING, so a misconfigured cache is reported at startup rather
// than logged on every metadata lookup.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid token cache url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("token cache unreachable at %s: %w", opts.Addr, err)
	}
	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
