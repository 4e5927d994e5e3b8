package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block is a block header as returned by eth_getBlockByNumber / eth_getBlockByHash
// without full transaction objects.
type Block struct {
	Number           hexutil.Uint64  `json:"number"`
	Hash             common.Hash     `json:"hash"`
	ParentHash       common.Hash     `json:"parentHash"`
	Timestamp        hexutil.Uint64  `json:"timestamp"`
	Nonce            string          `json:"nonce"`
	Difficulty       *hexutil.Big    `json:"difficulty"`
	GasLimit         *hexutil.Big    `json:"gasLimit"`
	GasUsed          *hexutil.Big    `json:"gasUsed"`
	BaseFeePerGas    *hexutil.Big    `json:"baseFeePerGas"`
	Miner            common.Address  `json:"miner"`
	ExtraData        hexutil.Bytes   `json:"extraData"`
	Transactions     []common.Hash   `json:"transactions"`
	L1BatchNumber    *hexutil.Uint64 `json:"l1BatchNumber"`
	L1BatchTimestamp *hexutil.Uint64 `json:"l1BatchTimestamp"`
}

// BlockDetails is the rollup-specific view of a block (zks_getBlockDetails).
type BlockDetails struct {
	Number          uint64         `json:"number"`
	L1BatchNumber   uint64         `json:"l1BatchNumber"`
	Timestamp       uint64         `json:"timestamp"`
	L1TxCount       int            `json:"l1TxCount"`
	L2TxCount       int            `json:"l2TxCount"`
	RootHash        *common.Hash   `json:"rootHash"`
	Status          string         `json:"status"`
	CommitTxHash    *common.Hash   `json:"commitTxHash"`
	CommittedAt     *time.Time     `json:"committedAt"`
	ProveTxHash     *common.Hash   `json:"proveTxHash"`
	ProvenAt        *time.Time     `json:"provenAt"`
	ExecuteTxHash   *common.Hash   `json:"executeTxHash"`
	ExecutedAt      *time.Time     `json:"executedAt"`
	OperatorAddress common.Address `json:"operatorAddress"`
}
