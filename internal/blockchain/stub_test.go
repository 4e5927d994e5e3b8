package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/core/domain"
	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

var errNotStubbed = errors.New("not stubbed")

type sentRequest struct {
	method string
	params []any
}

type balanceRequest struct {
	address  common.Address
	blockTag string
}

// stubProvider answers from canned values. failures[name] makes the next
// n calls of that operation fail with a TIMEOUT failure.
type stubProvider struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int

	blockNumber  uint64
	batchNumber  uint64
	block        *domain.Block
	blockDetails map[uint64]*domain.BlockDetails
	batches      map[uint64]*domain.BatchDetails
	txs          map[common.Hash]*domain.Transaction
	receipts     map[common.Hash]*domain.TransactionReceipt
	txDetails    map[common.Hash]*domain.TransactionDetails
	logs         []domain.Log
	code         map[common.Address][]byte
	bridges      *domain.BridgeAddresses
	balance      *big.Int
	contractOut  map[string][]byte // keyed by ABI method name
	sendResult   any
	sent         []sentRequest
	balanceReqs  []balanceRequest
	contractReqs []provider.CallMsg
	callTags     []string
	listeners    []provider.Listener
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		calls:        map[string]int{},
		failures:     map[string]int{},
		blockDetails: map[uint64]*domain.BlockDetails{},
		batches:      map[uint64]*domain.BatchDetails{},
		txs:          map[common.Hash]*domain.Transaction{},
		receipts:     map[common.Hash]*domain.TransactionReceipt{},
		txDetails:    map[common.Hash]*domain.TransactionDetails{},
		code:         map[common.Address][]byte{},
		contractOut:  map[string][]byte{},
	}
}

func (p *stubProvider) record(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[op]++
	if p.failures[op] > 0 {
		p.failures[op]--
		return provider.NewFailure(provider.CodeTimeout, op+" timed out", nil)
	}
	return nil
}

func (p *stubProvider) count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *stubProvider) BlockNumber(ctx context.Context) (uint64, error) {
	if err := p.record("blockNumber"); err != nil {
		return 0, err
	}
	return p.blockNumber, nil
}

func (p *stubProvider) Block(ctx context.Context, tagOrHash string) (*domain.Block, error) {
	if err := p.record("block"); err != nil {
		return nil, err
	}
	return p.block, nil
}

func (p *stubProvider) BlockDetails(ctx context.Context, number uint64) (*domain.BlockDetails, error) {
	if err := p.record("blockDetails"); err != nil {
		return nil, err
	}
	return p.blockDetails[number], nil
}

func (p *stubProvider) L1BatchNumber(ctx context.Context) (uint64, error) {
	if err := p.record("l1BatchNumber"); err != nil {
		return 0, err
	}
	return p.batchNumber, nil
}

func (p *stubProvider) L1BatchDetails(ctx context.Context, number uint64) (*domain.BatchDetails, error) {
	if err := p.record("l1BatchDetails"); err != nil {
		return nil, err
	}
	return p.batches[number], nil
}

func (p *stubProvider) Transaction(ctx context.Context, hash common.Hash) (*domain.Transaction, error) {
	if err := p.record("transaction"); err != nil {
		return nil, err
	}
	return p.txs[hash], nil
}

func (p *stubProvider) TransactionReceipt(
	ctx context.Context,
	hash common.Hash,
) (*domain.TransactionReceipt, error) {
	if err := p.record("transactionReceipt"); err != nil {
		return nil, err
	}
	return p.receipts[hash], nil
}

func (p *stubProvider) TransactionDetails(
	ctx context.Context,
	hash common.Hash,
) (*domain.TransactionDetails, error) {
	if err := p.record("transactionDetails"); err != nil {
		return nil, err
	}
	return p.txDetails[hash], nil
}

func (p *stubProvider) Logs(ctx context.Context, filter domain.LogFilter) ([]domain.Log, error) {
	if err := p.record("logs"); err != nil {
		return nil, err
	}
	return p.logs, nil
}

func (p *stubProvider) Code(ctx context.Context, address common.Address) ([]byte, error) {
	if err := p.record("code"); err != nil {
		return nil, err
	}
	return p.code[address], nil
}

func (p *stubProvider) Balance(ctx context.Context, address common.Address, blockTag string) (*big.Int, error) {
	if err := p.record("balance"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.balanceReqs = append(p.balanceReqs, balanceRequest{address, blockTag})
	p.mu.Unlock()
	return p.balance, nil
}

func (p *stubProvider) DefaultBridgeAddresses(ctx context.Context) (*domain.BridgeAddresses, error) {
	if err := p.record("bridges"); err != nil {
		return nil, err
	}
	return p.bridges, nil
}

func (p *stubProvider) Call(ctx context.Context, msg provider.CallMsg, blockTag string) ([]byte, error) {
	method, err := erc20ABI.MethodById(msg.Data)
	if err != nil {
		return nil, err
	}
	if err := p.record(method.Name); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.contractReqs = append(p.contractReqs, msg)
	p.callTags = append(p.callTags, blockTag)
	out, ok := p.contractOut[method.Name]
	if !ok {
		return nil, errNotStubbed
	}
	return out, nil
}

func (p *stubProvider) Send(ctx context.Context, result any, method string, params ...any) error {
	if err := p.record(method); err != nil {
		return err
	}
	p.mu.Lock()
	p.sent = append(p.sent, sentRequest{method, params})
	p.mu.Unlock()

	raw, err := json.Marshal(p.sendResult)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (p *stubProvider) State() provider.State {
	return provider.StateOpen
}

func (p *stubProvider) On(event string, listener provider.Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, listener)
}

func (p *stubProvider) FormatBlockTag(number *big.Int) string {
	return provider.FormatBlockTag(number)
}

func (p *stubProvider) Close() error {
	return nil
}

// countingSink counts observations per function.
type countingSink struct {
	mu     sync.Mutex
	counts map[string]int
}

func (s *countingSink) StartTimer() resilience.StopFunc {
	return func(function string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.counts == nil {
			s.counts = map[string]int{}
		}
		s.counts[function]++
	}
}

func (s *countingSink) count(function string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[function]
}

type stubCache struct {
	mu      sync.Mutex
	entries map[common.Address]*domain.TokenMetadata
	getErr  error
	setErr  error
	sets    int
}

func (c *stubCache) Get(ctx context.Context, contract common.Address) (*domain.TokenMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[contract], nil
}

func (c *stubCache) Set(ctx context.Context, contract common.Address, meta *domain.TokenMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	if c.entries == nil {
		c.entries = map[common.Address]*domain.TokenMetadata{}
	}
	c.entries[contract] = meta
	return nil
}

func newTestService(p *stubProvider, opts ...Option) (*Service, *countingSink) {
	sink := &countingSink{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	inv := resilience.NewInvoker(
		resilience.Config{QuickRetryTimeout: time.Millisecond, DefaultRetryTimeout: time.Millisecond},
		resilience.WithMetrics(sink),
		resilience.WithLogger(log),
	)
	opts = append([]Option{WithLogger(log)}, opts...)
	return New(p, inv, opts...), sink
}

func mustPack(method string, values ...any) []byte {
	out, err := erc20ABI.Methods[method].Outputs.Pack(values...)
	if err != nil {
		panic(err)
	}
	return out
}
