package scan

import (
	"context"
	"fmt"
	"testing"

	"github.com/holiman/uint256"

	"tickscope/internal/model"
	"tickscope/internal/tickmap"
)

type fakeBitmaps struct {
	words     map[int32]*uint256.Int
	failWords map[int32]bool
	fetches   int
}

func (f *fakeBitmaps) BitmapWord(_ context.Context, word int32) (*uint256.Int, error) {
	f.fetches++
	if f.failWords[word] {
		return nil, fmt.Errorf("word fetch failed: %d", word)
	}
	if value, ok := f.words[word]; ok {
		return value, nil
	}
	return new(uint256.Int), nil
}

func wordWithBits(bitPositions ...uint) *uint256.Int {
	word := new(uint256.Int)
	for _, bit := range bitPositions {
		word.Or(word, new(uint256.Int).Lsh(uint256.NewInt(1), bit))
	}
	return word
}

func TestAllTicksDecodesAndHydrates(t *testing.T) {
	bitmaps := &fakeBitmaps{words: map[int32]*uint256.Int{0: wordWithBits(10, 20)}}
	lookup := &fakeLookup{failTicks: map[int32]bool{600: true}}
	scanner := NewScanner(bitmaps, NewFetcher(FetcherConfig{BatchSize: 5}, lookup, nil), nil)

	window, err := scanner.AllTicks(context.Background(), 0, 2000, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Word 0 bits 10 and 20 at spacing 60 are ticks 600 and 1200; the failed
	// lookup on 600 yields its sentinel, 1200 a normal record, in order.
	if len(window) != 2 {
		t.Fatalf("window length %d, want 2", len(window))
	}
	if window[0].Tick != 600 || window[0].Record.Initialized {
		t.Fatalf("tick 600 should be the sentinel: %+v", window[0])
	}
	if window[1].Tick != 1200 || !window[1].Record.Initialized {
		t.Fatalf("tick 1200 should be hydrated: %+v", window[1])
	}
}

func TestAllTicksEmptyBitmapShortCircuits(t *testing.T) {
	bitmaps := &fakeBitmaps{}
	lookup := &fakeLookup{}
	scanner := NewScanner(bitmaps, NewFetcher(FetcherConfig{BatchSize: 5}, lookup, nil), nil)

	window, err := scanner.AllTicks(context.Background(), tickmap.MinTick, tickmap.MaxTick, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 0 {
		t.Fatalf("window length %d, want 0", len(window))
	}
	if bitmaps.fetches != 58+57+1 {
		t.Fatalf("word fetches = %d, want one per word in range", bitmaps.fetches)
	}
	if lookup.calls != 0 {
		t.Fatalf("detail lookups = %d, want 0 for empty bitmap", lookup.calls)
	}
}

func TestAllTicksWordFailureIsZeroWord(t *testing.T) {
	bitmaps := &fakeBitmaps{
		words:     map[int32]*uint256.Int{0: wordWithBits(1), 1: wordWithBits(0)},
		failWords: map[int32]bool{0: true},
	}
	lookup := &fakeLookup{}
	scanner := NewScanner(bitmaps, NewFetcher(FetcherConfig{BatchSize: 5}, lookup, nil), nil)

	window, err := scanner.AllTicks(context.Background(), 0, 20000, 60)
	if err != nil {
		t.Fatalf("a failed word fetch must not abort the scan: %v", err)
	}
	if len(window) != 1 || window[0].Tick != tickmap.WordStartTick(1, 60) {
		t.Fatalf("expected only word 1's tick, got %+v", window)
	}
}

func TestAllTicksFiltersRequestedRange(t *testing.T) {
	bitmaps := &fakeBitmaps{words: map[int32]*uint256.Int{0: wordWithBits(0, 10, 20)}}
	lookup := &fakeLookup{}
	scanner := NewScanner(bitmaps, NewFetcher(FetcherConfig{BatchSize: 5}, lookup, nil), nil)

	window, err := scanner.AllTicks(context.Background(), 100, 700, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 1 || window[0].Tick != 600 {
		t.Fatalf("expected only tick 600 within [100, 700], got %+v", window)
	}
}

func TestBuildWindowFillsGaps(t *testing.T) {
	record := model.ZeroTickRecord()
	record.Initialized = true
	hydrated := model.TickWindow{{Tick: 60, Record: record}}

	window, err := BuildWindow(hydrated, -60, 120, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTicks := []int32{-60, 0, 60, 120}
	if len(window) != len(wantTicks) {
		t.Fatalf("window length %d, want %d", len(window), len(wantTicks))
	}
	for i, entry := range window {
		if entry.Tick != wantTicks[i] {
			t.Fatalf("position %d holds tick %d, want %d", i, entry.Tick, wantTicks[i])
		}
		if initialized := entry.Record.Initialized; initialized != (entry.Tick == 60) {
			t.Fatalf("tick %d initialized = %v", entry.Tick, initialized)
		}
	}
}

func TestBuildWindowAlignsUnalignedBounds(t *testing.T) {
	window, err := BuildWindow(nil, -70, 130, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTicks := []int32{-60, 0, 60, 120}
	for i, entry := range window {
		if entry.Tick != wantTicks[i] {
			t.Fatalf("position %d holds tick %d, want %d", i, entry.Tick, wantTicks[i])
		}
	}

	if _, err := BuildWindow(model.TickWindow{{Tick: 30, Record: model.ZeroTickRecord()}}, 0, 100, 60); err == nil {
		t.Fatalf("expected error for unaligned hydrated tick")
	}
}
