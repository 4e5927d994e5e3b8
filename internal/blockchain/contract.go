package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/vietddude/blockworker/internal/infra/rpc/provider"
	"github.com/vietddude/blockworker/internal/infra/rpc/resilience"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var erc20ABI = mustParseABI(erc20ABIJSON)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI: %v", err))
	}
	return parsed
}

// erc20Contract performs read-only ERC-20 calls. Every call is retried like
// any other chain query and is named after the contract method.
type erc20Contract struct {
	address  common.Address
	provider provider.Provider
	invoker  *resilience.Invoker
}

func (s *Service) erc20(address common.Address) *erc20Contract {
	return &erc20Contract{address: address, provider: s.provider, invoker: s.invoker}
}

func (c *erc20Contract) call(ctx context.Context, method, blockTag string, args ...any) ([]any, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}
	msg := provider.CallMsg{To: c.address, Data: data}

	return resilience.Call(ctx, c.invoker, method, func(ctx context.Context) ([]any, error) {
		out, err := c.provider.Call(ctx, msg, blockTag)
		if err != nil {
			return nil, err
		}
		values, err := erc20ABI.Unpack(method, out)
		if err != nil {
			return nil, provider.NewFailure(provider.CodeCallException,
				fmt.Sprintf("failed to decode %s result", method), err)
		}
		return values, nil
	})
}

func (c *erc20Contract) Symbol(ctx context.Context) (string, error) {
	out, err := c.call(ctx, "symbol", "latest")
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *erc20Contract) Name(ctx context.Context) (string, error) {
	out, err := c.call(ctx, "name", "latest")
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *erc20Contract) Decimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, "decimals", "latest")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (c *erc20Contract) BalanceOf(ctx context.Context, account common.Address, blockTag string) (*big.Int, error) {
	out, err := c.call(ctx, "balanceOf", blockTag, account)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
