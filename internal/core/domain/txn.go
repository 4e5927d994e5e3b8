package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is a transaction as returned by eth_getTransactionByHash.
type Transaction struct {
	Hash                 common.Hash     `json:"hash"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	BlockHash            *common.Hash    `json:"blockHash"`
	BlockNumber          *hexutil.Uint64 `json:"blockNumber"`
	TransactionIndex     *hexutil.Uint64 `json:"transactionIndex"`
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Value                *hexutil.Big    `json:"value"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Input                hexutil.Bytes   `json:"input"`
	Type                 hexutil.Uint64  `json:"type"`
	ChainID              *hexutil.Big    `json:"chainId"`
	L1BatchNumber        *hexutil.Uint64 `json:"l1BatchNumber"`
	L1BatchTxIndex       *hexutil.Uint64 `json:"l1BatchTxIndex"`
}

// TransactionReceipt is the receipt of an executed transaction.
type TransactionReceipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	L1BatchNumber     *hexutil.Uint64 `json:"l1BatchNumber"`
	L1BatchTxIndex    *hexutil.Uint64 `json:"l1BatchTxIndex"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	ContractAddress   *common.Address `json:"contractAddress"`
	CumulativeGasUsed *hexutil.Big    `json:"cumulativeGasUsed"`
	GasUsed           *hexutil.Big    `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	Status            hexutil.Uint64  `json:"status"`
	Type              hexutil.Uint64  `json:"type"`
	Root              string          `json:"root"`
	LogsBloom         hexutil.Bytes   `json:"logsBloom"`
	Logs              []Log           `json:"logs"`
	L2ToL1Logs        []L2ToL1Log     `json:"l2ToL1Logs"`
}

// TransactionDetails is the rollup-specific view of a transaction (zks_getTransactionDetails).
type TransactionDetails struct {
	IsL1Originated   bool           `json:"isL1Originated"`
	Status           string         `json:"status"`
	Fee              *hexutil.Big   `json:"fee"`
	GasPerPubdata    *hexutil.Big   `json:"gasPerPubdata"`
	InitiatorAddress common.Address `json:"initiatorAddress"`
	ReceivedAt       time.Time      `json:"receivedAt"`
	EthCommitTxHash  *common.Hash   `json:"ethCommitTxHash"`
	EthProveTxHash   *common.Hash   `json:"ethProveTxHash"`
	EthExecuteTxHash *common.Hash   `json:"ethExecuteTxHash"`
}
