package blockchain

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/core/domain"
)

var usdc = common.HexToAddress("0x3355df6D4c9C3035724Fd0e3914dE96A5a83aaf4")

func stubMetadata(p *stubProvider) {
	p.contractOut["symbol"] = mustPack("symbol", "USDC")
	p.contractOut["decimals"] = mustPack("decimals", uint8(6))
	p.contractOut["name"] = mustPack("name", "USD Coin")
}

func TestGetTokenMetadata(t *testing.T) {
	p := newStubProvider()
	stubMetadata(p)
	p.failures["decimals"] = 1
	svc, sink := newTestService(p)

	meta, err := svc.GetTokenMetadata(context.Background(), usdc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.TokenMetadata{Symbol: "USDC", Decimals: 6, Name: "USD Coin"}
	if *meta != want {
		t.Errorf("expected %+v, got %+v", want, *meta)
	}

	for method, attempts := range map[string]int{"symbol": 1, "decimals": 2, "name": 1} {
		if n := p.count(method); n != attempts {
			t.Errorf("%s: expected %d attempts, got %d", method, attempts, n)
		}
		if n := sink.count(method); n != 1 {
			t.Errorf("%s: expected one observation, got %d", method, n)
		}
	}
	for _, msg := range p.contractReqs {
		if msg.To != usdc {
			t.Errorf("expected call to %s, got %s", usdc.Hex(), msg.To.Hex())
		}
	}
}

func TestGetTokenMetadata_UndecodableResultIsRetried(t *testing.T) {
	p := newStubProvider()
	stubMetadata(p)
	p.contractOut["name"] = []byte{}
	svc, _ := newTestService(p)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for p.count("name") < 3 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	if _, err := svc.GetTokenMetadata(ctx, usdc); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGetTokenMetadata_CacheHit(t *testing.T) {
	p := newStubProvider()
	cached := &domain.TokenMetadata{Symbol: "DAI", Decimals: 18, Name: "Dai Stablecoin"}
	cache := &stubCache{entries: map[common.Address]*domain.TokenMetadata{usdc: cached}}
	svc, _ := newTestService(p, WithTokenCache(cache))

	meta, err := svc.GetTokenMetadata(context.Background(), usdc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *meta != *cached {
		t.Errorf("expected cached %+v, got %+v", cached, meta)
	}
	if len(p.contractReqs) != 0 {
		t.Errorf("expected no contract calls, got %d", len(p.contractReqs))
	}
}

func TestGetTokenMetadata_CacheMissPopulates(t *testing.T) {
	p := newStubProvider()
	stubMetadata(p)
	cache := &stubCache{}
	svc, _ := newTestService(p, WithTokenCache(cache))

	if _, err := svc.GetTokenMetadata(context.Background(), usdc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cache.entries[usdc]; got == nil || got.Symbol != "USDC" {
		t.Errorf("expected cache to be populated, got %+v", got)
	}
}

func TestGetTokenMetadata_CacheErrorsIgnored(t *testing.T) {
	p := newStubProvider()
	stubMetadata(p)
	cache := &stubCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc, _ := newTestService(p, WithTokenCache(cache))

	meta, err := svc.GetTokenMetadata(context.Background(), usdc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Name != "USD Coin" {
		t.Errorf("expected metadata from chain, got %+v", meta)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write attempt, got %d", cache.sets)
	}
}

func TestGetBalance_Native(t *testing.T) {
	account := common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")

	for _, token := range []common.Address{domain.NativeTokenAddress, domain.L2NativeTokenAddress} {
		p := newStubProvider()
		p.balance = big.NewInt(5e18)
		p.failures["balance"] = 1
		svc, sink := newTestService(p)

		got, err := svc.GetBalance(context.Background(), account, big.NewInt(100), token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Cmp(big.NewInt(5e18)) != 0 {
			t.Errorf("%s: expected 5e18, got %s", token.Hex(), got)
		}
		if len(p.contractReqs) != 0 {
			t.Errorf("%s: expected no contract calls", token.Hex())
		}
		if len(p.balanceReqs) != 1 || p.balanceReqs[0] != (balanceRequest{account, "0x64"}) {
			t.Errorf("%s: unexpected balance requests %+v", token.Hex(), p.balanceReqs)
		}
		if sink.count("getBalance") != 1 {
			t.Errorf("%s: expected one getBalance observation", token.Hex())
		}
	}
}

func TestGetBalance_ERC20(t *testing.T) {
	account := common.HexToAddress("0x36615Cf349d7F6344891B1e7CA7C72883F5dc049")
	p := newStubProvider()
	p.contractOut["balanceOf"] = mustPack("balanceOf", big.NewInt(1_500_000))
	p.failures["balanceOf"] = 2
	svc, sink := newTestService(p)

	got, err := svc.GetBalance(context.Background(), account, nil, usdc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cmp(big.NewInt(1_500_000)) != 0 {
		t.Errorf("expected 1500000, got %s", got)
	}
	if len(p.balanceReqs) != 0 {
		t.Error("expected no native balance request")
	}

	if len(p.contractReqs) != 1 {
		t.Fatalf("expected one successful contract call, got %d", len(p.contractReqs))
	}
	msg := p.contractReqs[0]
	wantData, _ := erc20ABI.Pack("balanceOf", account)
	if msg.To != usdc || !bytes.Equal(msg.Data, wantData) {
		t.Errorf("unexpected call %+v", msg)
	}
	if p.callTags[0] != "latest" {
		t.Errorf("expected latest tag, got %s", p.callTags[0])
	}
	if sink.count("balanceOf") != 1 {
		t.Error("expected one balanceOf observation")
	}
}
