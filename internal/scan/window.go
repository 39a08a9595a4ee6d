package scan

import (
	"fmt"

	"tickscope/internal/model"
)

// BuildWindow expands hydrated ticks into a contiguous window over
// [minTick, maxTick] at tickSpacing granularity. Aligned ticks without an
// on-chain record are filled with the zero sentinel so the window has no
// gaps. Input entries must be ascending and aligned.
func BuildWindow(hydrated model.TickWindow, minTick, maxTick, tickSpacing int32) (model.TickWindow, error) {
	if tickSpacing <= 0 {
		return nil, fmt.Errorf("tick spacing must be greater than zero")
	}
	if maxTick < minTick {
		return nil, fmt.Errorf("max tick must be >= min tick")
	}

	byTick := make(map[int32]model.TickRecord, len(hydrated))
	for _, entry := range hydrated {
		if entry.Tick%tickSpacing != 0 {
			return nil, fmt.Errorf("tick %d not aligned to spacing %d", entry.Tick, tickSpacing)
		}
		byTick[entry.Tick] = entry.Record
	}

	start := alignUp(minTick, tickSpacing)
	window := make(model.TickWindow, 0, (maxTick-start)/tickSpacing+1)
	for tick := start; tick <= maxTick; tick += tickSpacing {
		record, ok := byTick[tick]
		if !ok {
			record = model.ZeroTickRecord()
		}
		window = append(window, model.TickWindowEntry{Tick: tick, Record: record})
	}
	return window, nil
}

// alignUp rounds tick to the smallest aligned tick >= tick.
func alignUp(tick, tickSpacing int32) int32 {
	rem := tick % tickSpacing
	if rem == 0 {
		return tick
	}
	if tick > 0 {
		return tick - rem + tickSpacing
	}
	return tick - rem
}
