package domain

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Log is an event log emitted by a contract.
type Log struct {
	Address          common.Address  `json:"address"`
	Topics           []common.Hash   `json:"topics"`
	Data             hexutil.Bytes   `json:"data"`
	BlockHash        *common.Hash    `json:"blockHash"`
	BlockNumber      *hexutil.Uint64 `json:"blockNumber"`
	L1BatchNumber    *hexutil.Uint64 `json:"l1BatchNumber"`
	TransactionHash  *common.Hash    `json:"transactionHash"`
	TransactionIndex *hexutil.Uint64 `json:"transactionIndex"`
	LogIndex         *hexutil.Uint64 `json:"logIndex"`
	Removed          bool            `json:"removed"`
}

// L2ToL1Log is a system log sent from L2 to L1.
type L2ToL1Log struct {
	BlockHash        common.Hash     `json:"blockHash"`
	BlockNumber      hexutil.Uint64  `json:"blockNumber"`
	L1BatchNumber    *hexutil.Uint64 `json:"l1BatchNumber"`
	TransactionIndex hexutil.Uint64  `json:"transactionIndex"`
	TxIndexInL1Batch *hexutil.Uint64 `json:"txIndexInL1Batch"`
	ShardID          hexutil.Uint64  `json:"shardId"`
	IsService        bool            `json:"isService"`
	Sender           common.Address  `json:"sender"`
	Key              common.Hash     `json:"key"`
	Value            common.Hash     `json:"value"`
	TransactionHash  common.Hash     `json:"transactionHash"`
	LogIndex         hexutil.Uint64  `json:"logIndex"`
}

// LogFilter selects logs in an inclusive block range, optionally narrowed
// by emitting contract and topics.
type LogFilter struct {
	FromBlock uint64
	ToBlock   uint64
	Addresses []common.Address
	Topics    [][]common.Hash
}

// MarshalJSON encodes the filter as eth_getLogs parameters.
func (f LogFilter) MarshalJSON() ([]byte, error) {
	arg := map[string]any{
		"fromBlock": hexutil.EncodeUint64(f.FromBlock),
		"toBlock":   hexutil.EncodeUint64(f.ToBlock),
	}
	if len(f.Addresses) == 1 {
		arg["address"] = f.Addresses[0]
	} else if len(f.Addresses) > 1 {
		arg["address"] = f.Addresses
	}
	if len(f.Topics) > 0 {
		arg["topics"] = f.Topics
	}
	return json.Marshal(arg)
}
