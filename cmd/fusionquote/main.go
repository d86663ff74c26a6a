package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/defistate/fusionamm-go/calculator"
	"github.com/defistate/fusionamm-go/calculator/tickarray"
	"github.com/defistate/fusionamm-go/cmd/fusionquote/config"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

func main() {
	root := &cobra.Command{
		Use:          "fusionquote",
		Short:        "Quote swaps and order books against a FusionAMM pool snapshot",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap against a pool snapshot",
		RunE:  runSwap,
	}

	swapCmd.Flags().String("snapshot", "", "pool snapshot JSON path")
	swapCmd.Flags().String("pool", "", "pool address (optional for single-pool snapshots)")
	swapCmd.Flags().Uint64("amount", 0, "token amount (input, or output with --exact-out)")
	swapCmd.Flags().Bool("token-a", false, "the specified amount is denominated in token A")
	swapCmd.Flags().Bool("exact-out", false, "treat the amount as the requested output")
	swapCmd.Flags().Uint16("slippage-bps", 100, "slippage tolerance in basis points")
	swapCmd.Flags().Uint16("transfer-fee-a", 0, "token A transfer fee in basis points")
	swapCmd.Flags().Uint16("transfer-fee-b", 0, "token B transfer fee in basis points")
	swapCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(swapCmd)

	orderbookCmd := &cobra.Command{
		Use:   "orderbook",
		Short: "Aggregate one side of the display order book",
		RunE:  runOrderBook,
	}

	orderbookCmd.Flags().String("snapshot", "", "pool snapshot JSON path")
	orderbookCmd.Flags().String("pool", "", "pool address (optional for single-pool snapshots)")
	orderbookCmd.Flags().Float64("price-step", 0.01, "price bucket step; negative walks prices down")
	orderbookCmd.Flags().Int("max-entries", 100, "maximum number of book entries")
	orderbookCmd.Flags().Bool("invert", false, "display prices as B per A")
	orderbookCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(orderbookCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSwap(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Snapshot == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if cfg.Amount == 0 {
		return fmt.Errorf("amount must be positive")
	}

	snap, err := loadSnapshot(cfg.Snapshot)
	if err != nil {
		return err
	}
	view, err := snap.findPool(cfg.Pool)
	if err != nil {
		return err
	}

	logger.Info("quoting swap",
		zap.String("pool", view.Address),
		zap.Uint64("slot", snap.Slot),
		zap.Uint64("amount", cfg.Amount),
		zap.Bool("token_a", cfg.TokenA),
		zap.Bool("exact_out", cfg.ExactOut),
		zap.Uint16("slippage_bps", cfg.SlippageBps),
	)

	feeA, feeB := transferFees(cfg)

	var quote any
	if cfg.ExactOut {
		quote, err = calculator.SwapQuoteByOutputToken(
			cfg.Amount, cfg.TokenA, cfg.SlippageBps, view.Pool, view.TickArrays, feeA, feeB)
	} else {
		quote, err = calculator.SwapQuoteByInputToken(
			cfg.Amount, cfg.TokenA, cfg.SlippageBps, view.Pool, view.TickArrays, feeA, feeB)
	}
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}

	return printJSON(quote)
}

func runOrderBook(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Snapshot == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if cfg.PriceStep == 0 {
		return fmt.Errorf("price step must be non-zero")
	}

	snap, err := loadSnapshot(cfg.Snapshot)
	if err != nil {
		return err
	}
	view, err := snap.findPool(cfg.Pool)
	if err != nil {
		return err
	}

	seq, err := tickarray.NewSequence(view.TickArrays, view.Pool.TickSpacing)
	if err != nil {
		return fmt.Errorf("tick arrays: %w", err)
	}

	logger.Info("aggregating order book",
		zap.String("pool", view.Address),
		zap.Uint64("slot", snap.Slot),
		zap.Float64("price_step", cfg.PriceStep),
		zap.Int("max_entries", cfg.MaxEntries),
		zap.Bool("invert", cfg.Invert),
	)

	entries, err := calculator.OrderBookSide(
		view.Pool, seq, cfg.PriceStep, cfg.MaxEntries, cfg.Invert, view.DecimalsA, view.DecimalsB)
	if err != nil {
		return fmt.Errorf("order book: %w", err)
	}

	return printJSON(entries)
}

func transferFees(cfg config.Config) (*fusionamm.TransferFee, *fusionamm.TransferFee) {
	var feeA, feeB *fusionamm.TransferFee
	if cfg.TransferFeeA > 0 {
		feeA = fusionamm.NewTransferFee(cfg.TransferFeeA)
	}
	if cfg.TransferFeeB > 0 {
		feeB = fusionamm.NewTransferFee(cfg.TransferFeeB)
	}
	return feeA, feeB
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
