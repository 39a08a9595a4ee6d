// Package scan walks a pool's tick bitmap, decodes the initialized tick set,
// and hydrates it into full tick records under a batched, rate-conscious
// fetch discipline.
package scan

import (
	"context"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"tickscope/internal/model"
	"tickscope/internal/tickmap"
)

// BitmapLookup is the remote per-word bitmap capability.
type BitmapLookup interface {
	BitmapWord(ctx context.Context, word int32) (*uint256.Int, error)
}

// Scanner discovers and hydrates a pool's initialized ticks.
type Scanner struct {
	bitmaps BitmapLookup
	fetcher *Fetcher
	logger  *zap.Logger
}

func NewScanner(bitmaps BitmapLookup, fetcher *Fetcher, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{bitmaps: bitmaps, fetcher: fetcher, logger: logger}
}

// AllTicks fetches every bitmap word covering [minTick, maxTick], decodes the
// initialized tick indices, and retrieves their records. A failed word fetch
// is treated as a zero word and logged. An empty decoded set short-circuits
// without issuing any detail lookup.
func (s *Scanner) AllTicks(ctx context.Context, minTick, maxTick, tickSpacing int32) (model.TickWindow, error) {
	minWord, maxWord, err := tickmap.WordRange(minTick, maxTick, tickSpacing)
	if err != nil {
		return nil, err
	}

	var ticks []int32
	for word := minWord; word <= maxWord; word++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		value, err := s.bitmaps.BitmapWord(ctx, word)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("bitmap word fetch failed", zap.Int32("word", word), zap.Error(err))
			continue
		}
		if value == nil || value.IsZero() {
			continue
		}

		for _, tick := range tickmap.DecodeWord(value, tickmap.WordStartTick(word, tickSpacing), tickSpacing) {
			if tick < minTick || tick > maxTick {
				continue
			}
			ticks = append(ticks, tick)
		}
	}

	s.logger.Info("bitmap scan complete",
		zap.Int32("min_word", minWord),
		zap.Int32("max_word", maxWord),
		zap.Int("initialized_ticks", len(ticks)),
	)

	if len(ticks) == 0 {
		return model.TickWindow{}, nil
	}

	return s.fetcher.Retrieve(ctx, ticks)
}
