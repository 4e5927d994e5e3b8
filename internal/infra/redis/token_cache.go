package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/vietddude/blockworker/internal/core/domain"
)

// TokenCache stores ERC-20 metadata, which never changes for a deployed contract.
type TokenCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTokenCache creates a token metadata cache. A ttl of 0 keeps entries forever.
func NewTokenCache(client *Client, ttl time.Duration) *TokenCache {
	return &TokenCache{rdb: client.rdb, ttl: ttl}
}

func tokenKey(contract common.Address) string {
	return fmt.Sprintf("token_metadata:%s", domain.NormalizeAddress(contract))
}

// Get returns the cached metadata, or nil when the contract is not cached.
func (c *TokenCache) Get(ctx context.Context, contract common.Address) (*domain.TokenMetadata, error) {
	data, err := c.rdb.Get(ctx, tokenKey(contract)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}

	var meta domain.TokenMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token metadata: %w", err)
	}
	return &meta, nil
}

// Set stores metadata for a contract.
func (c *TokenCache) Set(ctx context.Context, contract common.Address, meta *domain.TokenMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal token metadata: %w", err)
	}
	if err := c.rdb.Set(ctx, tokenKey(contract), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}
