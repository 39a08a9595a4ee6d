package scan

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tickscope/internal/model"
)

// TickLookup is the remote per-tick detail capability.
type TickLookup interface {
	TickRecord(ctx context.Context, tick int32) (model.TickRecord, error)
}

// FetcherConfig bounds in-flight lookups and paces consecutive batches.
// Both values are policy knobs protecting a rate-limited upstream; neither is
// derived from the input.
type FetcherConfig struct {
	BatchSize  int
	BatchDelay time.Duration
}

// Fetcher hydrates tick indices into records in bounded concurrent batches.
type Fetcher struct {
	cfg    FetcherConfig
	lookup TickLookup
	logger *zap.Logger
}

// NewFetcher builds a Fetcher. A zero or negative batch size falls back to 1.
func NewFetcher(cfg FetcherConfig, lookup TickLookup, logger *zap.Logger) *Fetcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{cfg: cfg, lookup: lookup, logger: logger}
}

// Retrieve fetches one record per input tick, preserving input order and
// length. Ticks are partitioned into consecutive chunks of at most BatchSize;
// lookups within a chunk run concurrently and are awaited as a group, and a
// fixed BatchDelay separates consecutive chunks (never trailing the last).
//
// A single failed lookup is replaced by the zero-valued sentinel record and
// logged; it never aborts the batch. Context cancellation aborts the whole
// retrieval.
func (f *Fetcher) Retrieve(ctx context.Context, ticks []int32) (model.TickWindow, error) {
	window := make(model.TickWindow, len(ticks))

	for start := 0; start < len(ticks); start += f.cfg.BatchSize {
		if start > 0 {
			if err := sleep(ctx, f.cfg.BatchDelay); err != nil {
				return nil, err
			}
		}

		end := start + f.cfg.BatchSize
		if end > len(ticks) {
			end = len(ticks)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			tick := ticks[i]
			group.Go(func() error {
				record, err := f.lookup.TickRecord(groupCtx, tick)
				if err != nil {
					if groupCtx.Err() != nil {
						return groupCtx.Err()
					}
					f.logger.Warn("tick lookup failed", zap.Int32("tick", tick), zap.Error(err))
					record = model.ZeroTickRecord()
				}
				window[i] = model.TickWindowEntry{Tick: tick, Record: record}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	return window, nil
}

// sleep waits for the given duration or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
