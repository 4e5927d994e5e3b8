package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BatchDetails describes an L1 batch (zks_getL1BatchDetails).
// Batch 0 is the genesis batch and carries no real commit/prove/execute times.
type BatchDetails struct {
	Number         uint64       `json:"number"`
	Timestamp      uint64       `json:"timestamp"`
	L1TxCount      int          `json:"l1TxCount"`
	L2TxCount      int          `json:"l2TxCount"`
	RootHash       *common.Hash `json:"rootHash"`
	Status         string       `json:"status"`
	CommitTxHash   *common.Hash `json:"commitTxHash"`
	CommittedAt    *time.Time   `json:"committedAt"`
	ProveTxHash    *common.Hash `json:"proveTxHash"`
	ProvenAt       *time.Time   `json:"provenAt"`
	ExecuteTxHash  *common.Hash `json:"executeTxHash"`
	ExecutedAt     *time.Time   `json:"executedAt"`
	L1GasPrice     uint64       `json:"l1GasPrice"`
	L2FairGasPrice uint64       `json:"l2FairGasPrice"`
}
