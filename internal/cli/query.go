package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/vietddude/blockworker/internal/blockchain"
	"github.com/vietddude/blockworker/internal/control"
)

var traceTopCall bool

var blockCmd = &cobra.Command{
	Use:   "block <tag|number|hash>",
	Short: "Print a block",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(ctx context.Context, _ *cobra.Command, svc *blockchain.Service, args []string) (any, error) {
		return svc.GetBlock(ctx, args[0])
	}),
}

var batchCmd = &cobra.Command{
	Use:   "batch <number>",
	Short: "Print L1 batch details",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(ctx context.Context, _ *cobra.Command, svc *blockchain.Service, args []string) (any, error) {
		number, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid batch number: %w", err)
		}
		return svc.GetL1BatchDetails(ctx, number)
	}),
}

var tokenCmd = &cobra.Command{
	Use:   "token <address>",
	Short: "Print ERC-20 token metadata",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(ctx context.Context, _ *cobra.Command, svc *blockchain.Service, args []string) (any, error) {
		contract, err := parseAddress(args[0])
		if err != nil {
			return nil, err
		}
		return svc.GetTokenMetadata(ctx, contract)
	}),
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address> <token>",
	Short: "Print the balance of an address; use the zero address for the native token",
	Args:  cobra.ExactArgs(2),
	RunE: withService(func(ctx context.Context, cmd *cobra.Command, svc *blockchain.Service, args []string) (any, error) {
		account, err := parseAddress(args[0])
		if err != nil {
			return nil, err
		}
		token, err := parseAddress(args[1])
		if err != nil {
			return nil, err
		}

		balance, err := svc.GetBalance(ctx, account, blockNumberFlag(cmd), token)
		if err != nil {
			return nil, err
		}
		return map[string]string{"balance": balance.String()}, nil
	}),
}

var traceCmd = &cobra.Command{
	Use:   "trace <tx-hash>",
	Short: "Print the call trace of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: withService(func(ctx context.Context, _ *cobra.Command, svc *blockchain.Service, args []string) (any, error) {
		hash, err := parseHash(args[0])
		if err != nil {
			return nil, err
		}
		return svc.DebugTraceTransaction(ctx, hash, traceTopCall)
	}),
}

func init() {
	addBlockNumberFlag(balanceCmd)
	traceCmd.Flags().BoolVar(&traceTopCall, "top-call", false, "trace only the top-level call")

	rootCmd.AddCommand(blockCmd, batchCmd, tokenCmd, balanceCmd, traceCmd)
}

type queryFunc func(ctx context.Context, cmd *cobra.Command, svc *blockchain.Service, args []string) (any, error)

// withService runs a query against a fresh worker and prints the result as JSON.
// SIGINT cancels the query, which otherwise retries until the node answers.
func withService(query queryFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := control.NewWorker(ctx, workerConfig(cfg))
		if err != nil {
			return err
		}
		defer func() {
			_ = app.Close()
		}()

		result, err := query(ctx, cmd, app.Service(), args)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %s", s)
	}
	return common.HexToAddress(s), nil
}

// parseHash accepts only 0x-prefixed hex encoding exactly 32 bytes.
func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q: %w", s, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q: got %d bytes, want %d",
			s, len(b), common.HashLength)
	}
	return common.BytesToHash(b), nil
}

// addBlockNumberFlag registers --block as unsigned so that negative numbers,
// which collide with the pending/latest tags, fail flag parsing.
func addBlockNumberFlag(cmd *cobra.Command) {
	cmd.Flags().Uint64("block", 0, "block number (default latest)")
}

// blockNumberFlag returns nil (latest) unless --block was given.
func blockNumberFlag(cmd *cobra.Command) *big.Int {
	if !cmd.Flags().Changed("block") {
		return nil
	}
	n, err := cmd.Flags().GetUint64("block")
	if err != nil {
		return nil
	}
	return new(big.Int).SetUint64(n)
}
