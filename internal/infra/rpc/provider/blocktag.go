package provider

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// FormatBlockTag renders a block number as an RPC block tag.
// nil means "latest"; the negative go-ethereum rpc.BlockNumber constants map
// to their names.
func FormatBlockTag(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	if number.Sign() >= 0 {
		return hexutil.EncodeBig(number)
	}
	if !number.IsInt64() {
		return "latest"
	}

	switch rpc.BlockNumber(number.Int64()) {
	case rpc.PendingBlockNumber:
		return "pending"
	case rpc.FinalizedBlockNumber:
		return "finalized"
	case rpc.SafeBlockNumber:
		return "safe"
	case rpc.EarliestBlockNumber:
		return "earliest"
	default:
		return "latest"
	}
}

// normalizeBlockTag accepts decimal numbers in addition to hex quantities and named tags.
func normalizeBlockTag(tag string) string {
	if tag == "" {
		return "latest"
	}
	if n, err := strconv.ParseUint(tag, 10, 64); err == nil {
		return hexutil.EncodeUint64(n)
	}
	return tag
}

func isBlockHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hexutil.Decode(s)
	return err == nil
}
