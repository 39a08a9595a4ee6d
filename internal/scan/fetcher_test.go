package scan

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tickscope/internal/model"
)

// fakeLookup returns a record whose liquidityGross echoes the tick, failing
// for ticks present in failTicks.
type fakeLookup struct {
	mu        sync.Mutex
	calls     int32
	inFlight  int32
	maxActive int32
	failTicks map[int32]bool
}

func (f *fakeLookup) TickRecord(_ context.Context, tick int32) (model.TickRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	active := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if active > f.maxActive {
		f.maxActive = active
	}
	failed := f.failTicks[tick]
	f.mu.Unlock()

	// Let batch peers overlap so concurrency is observable.
	time.Sleep(2 * time.Millisecond)

	if failed {
		return model.TickRecord{}, fmt.Errorf("lookup failed for tick %d", tick)
	}

	record := model.ZeroTickRecord()
	record.LiquidityGross = big.NewInt(int64(tick))
	record.Initialized = true
	return record, nil
}

func TestRetrieveOrderAndLength(t *testing.T) {
	lookup := &fakeLookup{}
	fetcher := NewFetcher(FetcherConfig{BatchSize: 3}, lookup, nil)

	ticks := []int32{-600, -60, 0, 60, 600, 1200, 1800}
	window, err := fetcher.Retrieve(context.Background(), ticks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(window) != len(ticks) {
		t.Fatalf("window length %d, want %d", len(window), len(ticks))
	}
	for i, entry := range window {
		if entry.Tick != ticks[i] {
			t.Fatalf("position %d holds tick %d, want %d", i, entry.Tick, ticks[i])
		}
		if entry.Record.LiquidityGross.Int64() != int64(ticks[i]) {
			t.Fatalf("tick %d record mismatch: %s", entry.Tick, entry.Record.LiquidityGross)
		}
	}

	if got := atomic.LoadInt32(&lookup.calls); got != int32(len(ticks)) {
		t.Fatalf("lookup calls = %d, want %d", got, len(ticks))
	}
	if lookup.maxActive > 3 {
		t.Fatalf("in-flight lookups %d exceeded batch size 3", lookup.maxActive)
	}
}

func TestRetrieveBatchDelayPacing(t *testing.T) {
	lookup := &fakeLookup{}
	delay := 40 * time.Millisecond
	fetcher := NewFetcher(FetcherConfig{BatchSize: 2, BatchDelay: delay}, lookup, nil)

	// 5 ticks at batch size 2: 3 batches, 2 inter-batch waits.
	start := time.Now()
	if _, err := fetcher.Retrieve(context.Background(), []int32{0, 60, 120, 180, 240}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Fatalf("elapsed %v, want at least %v for two inter-batch waits", elapsed, 2*delay)
	}

	// A single batch must not wait at all.
	start = time.Now()
	if _, err := fetcher.Retrieve(context.Background(), []int32{0, 60}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= delay {
		t.Fatalf("single batch waited %v, want no inter-batch delay", elapsed)
	}
}

func TestRetrieveEmptyInput(t *testing.T) {
	lookup := &fakeLookup{}
	fetcher := NewFetcher(FetcherConfig{BatchSize: 4, BatchDelay: time.Hour}, lookup, nil)

	window, err := fetcher.Retrieve(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 0 {
		t.Fatalf("window length %d, want 0", len(window))
	}
	if lookup.calls != 0 {
		t.Fatalf("lookup calls = %d, want 0", lookup.calls)
	}
}

func TestRetrieveFailureYieldsSentinel(t *testing.T) {
	lookup := &fakeLookup{failTicks: map[int32]bool{600: true}}
	fetcher := NewFetcher(FetcherConfig{BatchSize: 10}, lookup, nil)

	window, err := fetcher.Retrieve(context.Background(), []int32{600, 1200})
	if err != nil {
		t.Fatalf("a single lookup failure must not fail the retrieval: %v", err)
	}

	if window[0].Tick != 600 || window[0].Record.Initialized {
		t.Fatalf("tick 600 should carry the sentinel record: %+v", window[0])
	}
	if window[0].Record.LiquidityGross.Sign() != 0 {
		t.Fatalf("sentinel liquidity must be zero: %s", window[0].Record.LiquidityGross)
	}
	if window[1].Tick != 1200 || !window[1].Record.Initialized {
		t.Fatalf("tick 1200 should carry a normal record: %+v", window[1])
	}
}

func TestRetrieveCanceledContext(t *testing.T) {
	lookup := &fakeLookup{}
	fetcher := NewFetcher(FetcherConfig{BatchSize: 1, BatchDelay: time.Hour}, lookup, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fetcher.Retrieve(ctx, []int32{0, 60}); err == nil {
		t.Fatalf("expected context error")
	}
}
