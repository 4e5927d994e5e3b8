package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// NativeTokenAddress denotes the chain's base asset.
	NativeTokenAddress = common.Address{}

	// L2NativeTokenAddress is the system contract that tracks base asset balances on L2.
	L2NativeTokenAddress = common.HexToAddress("0x000000000000000000000000000000000000800a")
)

// TokenMetadata is the ERC-20 metadata of a token contract.
type TokenMetadata struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
}

// IsNativeToken reports whether address is one of the native asset sentinels.
func IsNativeToken(address common.Address) bool {
	return address == NativeTokenAddress || address == L2NativeTokenAddress
}

// NormalizeAddress lowercases a hex address for use as a storage key.
func NormalizeAddress(address common.Address) string {
	return strings.ToLower(address.Hex())
}
