package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/core/domain"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
	"golang.org/x/sync/errgroup"
)

// GetTokenMetadata reads symbol, decimals and name of an ERC-20 contract
// concurrently. Either all three are returned or none.
func (s *Service) GetTokenMetadata(ctx context.Context, contract common.Address) (*domain.TokenMetadata, error) {
	if s.cache != nil {
		meta, err := s.cache.Get(ctx, contract)
		if err != nil {
			s.log.Warn("Token cache read failed", "token", domain.NormalizeAddress(contract), "error", err)
		} else if meta != nil {
			return meta, nil
		}
	}

	token := s.erc20(contract)
	var meta domain.TokenMetadata

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		symbol, err := token.Symbol(gctx)
		meta.Symbol = symbol
		return err
	})
	g.Go(func() error {
		decimals, err := token.Decimals(gctx)
		meta.Decimals = decimals
		return err
	})
	g.Go(func() error {
		name, err := token.Name(gctx)
		meta.Name = name
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, contract, &meta); err != nil {
			s.log.Warn("Token cache write failed", "token", domain.NormalizeAddress(contract), "error", err)
		}
	}
	return &meta, nil
}

// GetBalance returns the balance of address in token at blockNumber (nil for latest).
// Native asset balances come from eth_getBalance, everything else from balanceOf.
func (s *Service) GetBalance(
	ctx context.Context,
	address common.Address,
	blockNumber *big.Int,
	token common.Address,
) (*big.Int, error) {
	blockTag := s.provider.FormatBlockTag(blockNumber)

	if domain.IsNativeToken(token) {
		return resilience.Call(ctx, s.invoker, "getBalance", func(ctx context.Context) (*big.Int, error) {
			return s.provider.Balance(ctx, address, blockTag)
		})
	}

	return s.erc20(token).BalanceOf(ctx, address, blockTag)
}
