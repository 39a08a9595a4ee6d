package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "tickscope",
		Short:        "V3 pool tick liquidity scanner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a pool's tick bitmap and reconstruct its liquidity curve",
		RunE:  runScan,
	}

	scanCmd.Flags().String("rpc", "", "RPC URL")
	scanCmd.Flags().String("pool", "", "pool contract address")
	scanCmd.Flags().Int32("min-tick", 0, "scan range lower bound (default full range)")
	scanCmd.Flags().Int32("max-tick", 0, "scan range upper bound (default full range)")
	scanCmd.Flags().Int("batch-size", 50, "tick lookups per batch")
	scanCmd.Flags().Duration("batch-delay", 200*time.Millisecond, "delay between batches")
	scanCmd.Flags().Int("rate-limit", 20, "max eth_call requests per second, 0 disables")
	scanCmd.Flags().Int("max-retries", 5, "maximum retry attempts per pool read")
	scanCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	scanCmd.Flags().Int32("window-radius", 0, "curve window half-width in tick spacings, 0 keeps initialized ticks only")
	scanCmd.Flags().Bool("quote-token0", false, "quote prices in token0 instead of token1")
	scanCmd.Flags().String("out", "./data/curve.jsonl", "output JSONL path")
	scanCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Convert between tick, sqrtPriceX96, and price",
		RunE:  runPrice,
	}

	priceCmd.Flags().Int32("tick", 0, "tick index to convert")
	priceCmd.Flags().Float64("price", 0, "quote price to convert")
	priceCmd.Flags().String("sqrt-price-x96", "", "sqrtPriceX96 value to convert")
	priceCmd.Flags().Uint("decimals0", 18, "token0 decimals")
	priceCmd.Flags().Uint("decimals1", 18, "token1 decimals")
	priceCmd.Flags().Bool("quote-token0", false, "quote prices in token0 instead of token1")
	priceCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(priceCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
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
