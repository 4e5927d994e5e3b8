// Package blockchain exposes chain and token queries as named, retried calls.
//
// Every query goes through resilience.Call, so a Service method only returns
// an error when its context is done.
package blockchain

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/core/domain"
	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

// TokenMetadataCache stores token metadata between runs. Get returns nil on a miss.
type TokenMetadataCache interface {
	Get(ctx context.Context, contract common.Address) (*domain.TokenMetadata, error)
	Set(ctx context.Context, contract common.Address, meta *domain.TokenMetadata) error
}

// Service is the chain client used by the worker.
type Service struct {
	provider provider.Provider
	invoker  *resilience.Invoker
	cache    TokenMetadataCache
	log      *slog.Logger

	mu              sync.RWMutex
	bridgeAddresses *domain.BridgeAddresses
}

// Option configures a Service.
type Option func(*Service)

// WithTokenCache enables the token metadata cache.
func WithTokenCache(c TokenMetadataCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Service calling p through inv.
func New(p provider.Provider, inv *resilience.Invoker, opts ...Option) *Service {
	s := &Service{
		provider: p,
		invoker:  inv,
		log:      slog.Default().With("component", "blockchain"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderState reports the provider's connection state.
func (s *Service) ProviderState() provider.State {
	return s.provider.State()
}
