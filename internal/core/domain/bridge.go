package domain

import "github.com/ethereum/go-ethereum/common"

// BridgeAddresses holds the default ERC-20 bridge contracts on both layers.
type BridgeAddresses struct {
	L1Erc20DefaultBridge common.Address `json:"l1Erc20DefaultBridge"`
	L2Erc20DefaultBridge common.Address `json:"l2Erc20DefaultBridge"`
}
