package blockchain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/core/domain"
	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

func (s *Service) GetBlockNumber(ctx context.Context) (uint64, error) {
	return resilience.Call(ctx, s.invoker, "getBlockNumber", s.provider.BlockNumber)
}

// GetBlock returns the block for a tag ("latest", number) or a block hash.
// A nil block means the node does not know it.
func (s *Service) GetBlock(ctx context.Context, tagOrHash string) (*domain.Block, error) {
	return resilience.Call(ctx, s.invoker, "getBlock", func(ctx context.Context) (*domain.Block, error) {
		return s.provider.Block(ctx, tagOrHash)
	})
}

func (s *Service) GetBlockDetails(ctx context.Context, number uint64) (*domain.BlockDetails, error) {
	return resilience.Call(ctx, s.invoker, "getBlockDetails", func(ctx context.Context) (*domain.BlockDetails, error) {
		return s.provider.BlockDetails(ctx, number)
	})
}

func (s *Service) GetL1BatchNumber(ctx context.Context) (uint64, error) {
	return resilience.Call(ctx, s.invoker, "getL1BatchNumber", s.provider.L1BatchNumber)
}

// GetL1BatchDetails returns the details of an L1 batch. Batch 0 is the
// genesis batch: its commit, prove and execute times are always the Unix epoch.
func (s *Service) GetL1BatchDetails(ctx context.Context, number uint64) (*domain.BatchDetails, error) {
	return resilience.Call(ctx, s.invoker, "getL1BatchDetails", func(ctx context.Context) (*domain.BatchDetails, error) {
		details, err := s.provider.L1BatchDetails(ctx, number)
		if err != nil {
			return nil, err
		}
		if details != nil && number == 0 {
			committed, proven, executed := epoch(), epoch(), epoch()
			details.CommittedAt, details.ProvenAt, details.ExecutedAt = &committed, &proven, &executed
		}
		return details, nil
	})
}

func epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

func (s *Service) GetTransaction(ctx context.Context, hash common.Hash) (*domain.Transaction, error) {
	return resilience.Call(ctx, s.invoker, "getTransaction", func(ctx context.Context) (*domain.Transaction, error) {
		return s.provider.Transaction(ctx, hash)
	})
}

func (s *Service) GetTransactionReceipt(
	ctx context.Context,
	hash common.Hash,
) (*domain.TransactionReceipt, error) {
	return resilience.Call(ctx, s.invoker, "getTransactionReceipt",
		func(ctx context.Context) (*domain.TransactionReceipt, error) {
			return s.provider.TransactionReceipt(ctx, hash)
		})
}

func (s *Service) GetTransactionDetails(
	ctx context.Context,
	hash common.Hash,
) (*domain.TransactionDetails, error) {
	return resilience.Call(ctx, s.invoker, "getTransactionDetails",
		func(ctx context.Context) (*domain.TransactionDetails, error) {
			return s.provider.TransactionDetails(ctx, hash)
		})
}

func (s *Service) GetLogs(ctx context.Context, filter domain.LogFilter) ([]domain.Log, error) {
	return resilience.Call(ctx, s.invoker, "getLogs", func(ctx context.Context) ([]domain.Log, error) {
		return s.provider.Logs(ctx, filter)
	})
}

func (s *Service) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	return resilience.Call(ctx, s.invoker, "getCode", func(ctx context.Context) ([]byte, error) {
		return s.provider.Code(ctx, address)
	})
}

func (s *Service) GetDefaultBridgeAddresses(ctx context.Context) (*domain.BridgeAddresses, error) {
	return resilience.Call(ctx, s.invoker, "getDefaultBridgeAddresses", s.provider.DefaultBridgeAddresses)
}

// DebugTraceTransaction returns the callTracer result for a transaction.
// With onlyTopCall the node skips internal calls.
func (s *Service) DebugTraceTransaction(
	ctx context.Context,
	hash common.Hash,
	onlyTopCall bool,
) (*domain.TraceResult, error) {
	params := map[string]any{
		"tracer":       "callTracer",
		"tracerConfig": map[string]any{"onlyTopCall": onlyTopCall},
	}
	return resilience.Call(ctx, s.invoker, "debugTraceTransaction", func(ctx context.Context) (*domain.TraceResult, error) {
		var trace *domain.TraceResult
		if err := s.provider.Send(ctx, &trace, "debug_traceTransaction", hash, params); err != nil {
			return nil, err
		}
		return trace, nil
	})
}

// On forwards a listener registration to the provider.
func (s *Service) On(event string, listener provider.Listener) {
	s.provider.On(event, listener)
}

// LoadBridgeAddresses fetches the default bridge contracts and keeps them on the service.
func (s *Service) LoadBridgeAddresses(ctx context.Context) error {
	addresses, err := s.GetDefaultBridgeAddresses(ctx)
	if err != nil {
		return err
	}
	if addresses == nil {
		addresses = &domain.BridgeAddresses{}
	}

	s.mu.Lock()
	s.bridgeAddresses = addresses
	s.mu.Unlock()

	s.log.Debug("Default bridge addresses loaded",
		"l1_erc20_bridge", domain.NormalizeAddress(addresses.L1Erc20DefaultBridge),
		"l2_erc20_bridge", domain.NormalizeAddress(addresses.L2Erc20DefaultBridge),
	)
	return nil
}

// BridgeAddresses returns the addresses loaded by LoadBridgeAddresses, or nil.
func (s *Service) BridgeAddresses() *domain.BridgeAddresses {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bridgeAddresses == nil {
		return nil
	}
	addresses := *s.bridgeAddresses
	return &addresses
}
