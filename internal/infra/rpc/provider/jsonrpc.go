package provider

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/vietddude/blockworker/internal/core/domain"
)

// Config holds settings for a JSON-RPC provider.
type Config struct {
	Name           string
	URL            string
	RequestTimeout time.Duration // HTTP client timeout, 0 = no timeout
	PollInterval   time.Duration // head polling interval when subscriptions are unsupported
}

// JSONRPCProvider implements Provider on top of a go-ethereum rpc.Client.
// It works with both HTTP and WebSocket endpoints.
type JSONRPCProvider struct {
	name         string
	client       *rpc.Client
	pollInterval time.Duration
	log          *slog.Logger

	mu        sync.RWMutex
	state     State
	chainID   *big.Int
	listeners []Listener
	watching  bool

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Dial connects to the endpoint and performs an eth_chainId handshake.
// A failed handshake is not fatal: the provider stays in StateConnecting
// until the first successful call.
func Dial(ctx context.Context, cfg Config) (*JSONRPCProvider, error) {
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client, err := rpc.DialOptions(ctx, cfg.URL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint: %w", err)
	}

	p := newJSONRPCProvider(client, cfg)
	if err := p.handshake(ctx); err != nil {
		p.log.Warn("Provider handshake failed, will reconnect on next call", "error", err)
	}
	return p, nil
}

func newJSONRPCProvider(client *rpc.Client, cfg Config) *JSONRPCProvider {
	name := cfg.Name
	if name == "" {
		name = "default"
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &JSONRPCProvider{
		name:         name,
		client:       client,
		pollInterval: pollInterval,
		log:          slog.Default().With("component", "provider", "provider", name),
		state:        StateConnecting,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *JSONRPCProvider) handshake(ctx context.Context) error {
	var chainID hexutil.Big
	if err := p.call(ctx, &chainID, "eth_chainId"); err != nil {
		return err
	}

	p.mu.Lock()
	p.chainID = (*big.Int)(&chainID)
	p.mu.Unlock()

	p.log.Info("Provider connected", "chain_id", p.chainID.String())
	return nil
}

// Name returns the provider identifier.
func (p *JSONRPCProvider) Name() string {
	return p.name
}

// ChainID returns the chain id reported during the handshake, or nil.
func (p *JSONRPCProvider) ChainID() *big.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.chainID
}

// State returns the current connection state.
func (p *JSONRPCProvider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *JSONRPCProvider) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed || p.state == s {
		return
	}
	p.log.Debug("Provider state changed", "from", p.state.String(), "to", s.String())
	p.state = s
}

// call performs one RPC request and tracks connection state from its outcome.
func (p *JSONRPCProvider) call(ctx context.Context, result any, method string, args ...any) error {
	if p.State() == StateClosed {
		return NewFailure(CodeNetworkError, "provider is closed", rpc.ErrClientQuit)
	}

	if err := p.client.CallContext(ctx, result, method, args...); err != nil {
		f := AsFailure(err)
		// A caller giving up says nothing about the connection.
		if ctx.Err() == nil && isNetworkCode(f.Code) {
			p.setState(StateConnecting)
		}
		return f
	}

	p.setState(StateOpen)
	return nil
}

func (p *JSONRPCProvider) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := p.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (p *JSONRPCProvider) Block(ctx context.Context, tagOrHash string) (*domain.Block, error) {
	var block *domain.Block
	var err error
	if isBlockHash(tagOrHash) {
		err = p.call(ctx, &block, "eth_getBlockByHash", tagOrHash, false)
	} else {
		err = p.call(ctx, &block, "eth_getBlockByNumber", normalizeBlockTag(tagOrHash), false)
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (p *JSONRPCProvider) BlockDetails(ctx context.Context, number uint64) (*domain.BlockDetails, error) {
	var details *domain.BlockDetails
	if err := p.call(ctx, &details, "zks_getBlockDetails", number); err != nil {
		return nil, err
	}
	return details, nil
}

func (p *JSONRPCProvider) L1BatchNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := p.call(ctx, &n, "zks_L1BatchNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (p *JSONRPCProvider) L1BatchDetails(ctx context.Context, number uint64) (*domain.BatchDetails, error) {
	var details *domain.BatchDetails
	if err := p.call(ctx, &details, "zks_getL1BatchDetails", number); err != nil {
		return nil, err
	}
	return details, nil
}

func (p *JSONRPCProvider) Transaction(ctx context.Context, hash common.Hash) (*domain.Transaction, error) {
	var tx *domain.Transaction
	if err := p.call(ctx, &tx, "eth_getTransactionByHash", hash); err != nil {
		return nil, err
	}
	return tx, nil
}

func (p *JSONRPCProvider) TransactionReceipt(
	ctx context.Context,
	hash common.Hash,
) (*domain.TransactionReceipt, error) {
	var receipt *domain.TransactionReceipt
	if err := p.call(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (p *JSONRPCProvider) TransactionDetails(
	ctx context.Context,
	hash common.Hash,
) (*domain.TransactionDetails, error) {
	var details *domain.TransactionDetails
	if err := p.call(ctx, &details, "zks_getTransactionDetails", hash); err != nil {
		return nil, err
	}
	return details, nil
}

func (p *JSONRPCProvider) Logs(ctx context.Context, filter domain.LogFilter) ([]domain.Log, error) {
	var logs []domain.Log
	if err := p.call(ctx, &logs, "eth_getLogs", filter); err != nil {
		return nil, err
	}
	return logs, nil
}

func (p *JSONRPCProvider) Code(ctx context.Context, address common.Address) ([]byte, error) {
	var code hexutil.Bytes
	if err := p.call(ctx, &code, "eth_getCode", address, "latest"); err != nil {
		return nil, err
	}
	return code, nil
}

func (p *JSONRPCProvider) Balance(
	ctx context.Context,
	address common.Address,
	blockTag string,
) (*big.Int, error) {
	var balance hexutil.Big
	if err := p.call(ctx, &balance, "eth_getBalance", address, blockTag); err != nil {
		return nil, err
	}
	return (*big.Int)(&balance), nil
}

func (p *JSONRPCProvider) DefaultBridgeAddresses(ctx context.Context) (*domain.BridgeAddresses, error) {
	var addresses domain.BridgeAddresses
	if err := p.call(ctx, &addresses, "zks_getBridgeContracts"); err != nil {
		return nil, err
	}
	return &addresses, nil
}

func (p *JSONRPCProvider) Call(ctx context.Context, msg CallMsg, blockTag string) ([]byte, error) {
	arg := map[string]any{
		"to":   msg.To,
		"data": hexutil.Bytes(msg.Data),
	}
	if msg.From != nil {
		arg["from"] = *msg.From
	}

	var out hexutil.Bytes
	if err := p.call(ctx, &out, "eth_call", arg, blockTag); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *JSONRPCProvider) Send(ctx context.Context, result any, method string, params ...any) error {
	return p.call(ctx, result, method, params...)
}

func (p *JSONRPCProvider) FormatBlockTag(number *big.Int) string {
	return FormatBlockTag(number)
}

// Close stops event watchers and closes the underlying client. State becomes StateClosed.
func (p *JSONRPCProvider) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.state = StateClosed
		p.mu.Unlock()

		p.cancel()
		p.wg.Wait()
		p.client.Close()
		p.log.Info("Provider closed")
	})
	return nil
}
