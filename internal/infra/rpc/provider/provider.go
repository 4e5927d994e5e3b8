// Package provider defines the chain provider capability and its live
// JSON-RPC implementation.
//
// This package contains:
//   - Provider interface: every remote operation the worker needs from a node
//   - Failure: the classified error type providers return
//   - JSONRPCProvider: go-ethereum rpc.Client backed implementation
//
// Providers never retry. Retry policy lives in the resilience package.
package provider

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/core/domain"
)

// State is the connection state of a provider.
type State int

const (
	StateConnecting State = iota // Dialing or reconnecting after a network failure
	StateOpen                    // Handshake succeeded
	StateClosed                  // Closed by the owner, terminal
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventBlock is emitted with the new block number whenever the chain head advances.
const EventBlock = "block"

// Listener receives provider events. For EventBlock the argument is a uint64.
type Listener func(payload any)

// CallMsg is a read-only contract call.
type CallMsg struct {
	From *common.Address
	To   common.Address
	Data []byte
}

// Provider is the capability surface a chain node client must expose.
// Every operation may fail with a *Failure.
type Provider interface {
	BlockNumber(ctx context.Context) (uint64, error)
	Block(ctx context.Context, tagOrHash string) (*domain.Block, error)
	BlockDetails(ctx context.Context, number uint64) (*domain.BlockDetails, error)
	L1BatchNumber(ctx context.Context) (uint64, error)
	L1BatchDetails(ctx context.Context, number uint64) (*domain.BatchDetails, error)
	Transaction(ctx context.Context, hash common.Hash) (*domain.Transaction, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*domain.TransactionReceipt, error)
	TransactionDetails(ctx context.Context, hash common.Hash) (*domain.TransactionDetails, error)
	Logs(ctx context.Context, filter domain.LogFilter) ([]domain.Log, error)
	Code(ctx context.Context, address common.Address) ([]byte, error)
	Balance(ctx context.Context, address common.Address, blockTag string) (*big.Int, error)
	DefaultBridgeAddresses(ctx context.Context) (*domain.BridgeAddresses, error)

	// Call executes eth_call against the given block tag.
	Call(ctx context.Context, msg CallMsg, blockTag string) ([]byte, error)

	// Send issues an arbitrary RPC method and decodes the result into result.
	Send(ctx context.Context, result any, method string, params ...any) error

	// State returns the current connection state. Callers only read it.
	State() State

	// On registers a listener for a provider event. There is no unsubscribe.
	On(event string, listener Listener)

	// FormatBlockTag renders a block number as an RPC block tag. Local, never fails.
	FormatBlockTag(number *big.Int) string

	Close() error
}
