package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tickscope/internal/chain"
	"tickscope/internal/config"
	"tickscope/internal/curve"
	"tickscope/internal/dex"
	"tickscope/internal/model"
	"tickscope/internal/pricing"
	"tickscope/internal/scan"
	"tickscope/internal/storage"
	"tickscope/internal/storage/postgres"
	"tickscope/internal/tickmap"
)

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("valid pool address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	reader, err := dex.NewPoolReader(dex.ReaderConfig{
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, common.HexToAddress(cfg.Pool), logger)
	if err != nil {
		return err
	}

	snapshot, err := reader.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("pool snapshot: %w", err)
	}

	logger.Info("pool snapshot",
		zap.String("pool", snapshot.Address),
		zap.Uint64("block", snapshot.BlockNumber),
		zap.Int32("current_tick", snapshot.Tick),
		zap.Int32("tick_spacing", snapshot.TickSpacing),
		zap.String("liquidity", snapshot.Liquidity.String()),
		zap.String("token0", snapshot.Token0.Symbol),
		zap.String("token1", snapshot.Token1.Symbol),
	)

	minTick, maxTick := scanBounds(cfg, snapshot)

	fetcher := scan.NewFetcher(scan.FetcherConfig{
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
	}, reader, logger)
	scanner := scan.NewScanner(reader, fetcher, logger)

	hydrated, err := scanner.AllTicks(ctx, minTick, maxTick, snapshot.TickSpacing)
	if err != nil {
		return fmt.Errorf("tick scan: %w", err)
	}

	window := hydrated
	if cfg.WindowRadius > 0 {
		window, err = scan.BuildWindow(hydrated, minTick, maxTick, snapshot.TickSpacing)
		if err != nil {
			return fmt.Errorf("build window: %w", err)
		}
	}

	values, err := curve.Reconstruct(window, snapshot.Tick, snapshot.Liquidity)
	if err != nil {
		return fmt.Errorf("reconstruct curve: %w", err)
	}

	points := curvePoints(window, values, snapshot, cfg.QuoteToken0)

	sink := storage.NewJsonlStorage(cfg.Out)
	if err := sink.PutCurveBatch(points); err != nil {
		return fmt.Errorf("write curve: %w", err)
	}

	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
		if err := store.UpsertCurve(ctx, snapshot.ChainID, snapshot.Address, snapshot.BlockNumber, points); err != nil {
			return fmt.Errorf("store curve: %w", err)
		}
	}

	logger.Info("scan complete",
		zap.Int("initialized_ticks", len(hydrated)),
		zap.Int("curve_rows", len(points)),
		zap.String("out", cfg.Out),
	)

	renderSummary(os.Stdout, snapshot, points, cfg.QuoteToken0)
	return nil
}

// scanBounds resolves the scan range: explicit flags win, a window radius
// centers the range on the current tick, and the default is the full tick
// range.
func scanBounds(cfg config.ScanConfig, snapshot model.PoolSnapshot) (int32, int32) {
	if cfg.MinTick != 0 || cfg.MaxTick != 0 {
		return clampTick(cfg.MinTick), clampTick(cfg.MaxTick)
	}
	if cfg.WindowRadius > 0 {
		half := cfg.WindowRadius * snapshot.TickSpacing
		return clampTick(snapshot.Tick - half), clampTick(snapshot.Tick + half)
	}
	return tickmap.MinTick, tickmap.MaxTick
}

func clampTick(tick int32) int32 {
	if tick < tickmap.MinTick {
		return tickmap.MinTick
	}
	if tick > tickmap.MaxTick {
		return tickmap.MaxTick
	}
	return tick
}

func curvePoints(window model.TickWindow, values []*big.Int, snapshot model.PoolSnapshot, quoteToken0 bool) []model.CurvePoint {
	points := make([]model.CurvePoint, len(window))
	for i, entry := range window {
		price := pricing.TickToQuotePrice(entry.Tick, snapshot.Token0.Decimals, snapshot.Token1.Decimals, quoteToken0)
		points[i] = model.NewCurvePoint(entry, values[i], price)
	}
	return points
}
