// Package curve rebuilds the absolute liquidity distribution across a tick
// window from the per-tick signed liquidity deltas, anchored at the pool's
// observed active liquidity.
package curve

import (
	"fmt"
	"math/big"

	"tickscope/internal/model"
)

// AnchorIndex returns the position of the window entry nearest currentTick.
// On an exact distance tie the lower tick wins; this is a deliberate policy,
// not an iteration accident. Returns -1 for an empty window.
func AnchorIndex(window model.TickWindow, currentTick int32) int {
	anchor := -1
	var best int64
	for i, entry := range window {
		distance := int64(entry.Tick) - int64(currentTick)
		if distance < 0 {
			distance = -distance
		}
		if anchor == -1 || distance < best {
			anchor = i
			best = distance
		}
	}
	return anchor
}

// Reconstruct derives the absolute liquidity at every window entry.
//
// The anchor entry is assigned currentLiquidity. liquidityNet at a tick is
// the change applied when price crosses that tick moving upward, so walking
// up from the anchor adds each entry's own net delta and walking down removes
// the net delta of the entry above. The result is a directional
// approximation pinned to one observed liquidity sample, not authoritative
// on-chain state.
func Reconstruct(window model.TickWindow, currentTick int32, currentLiquidity *big.Int) ([]*big.Int, error) {
	if currentLiquidity == nil {
		return nil, fmt.Errorf("current liquidity is nil")
	}
	if len(window) == 0 {
		return []*big.Int{}, nil
	}

	anchor := AnchorIndex(window, currentTick)
	values := make([]*big.Int, len(window))
	values[anchor] = new(big.Int).Set(currentLiquidity)

	for i := anchor - 1; i >= 0; i-- {
		values[i] = new(big.Int).Sub(values[i+1], window[i+1].Record.LiquidityNet)
	}
	for i := anchor + 1; i < len(window); i++ {
		values[i] = new(big.Int).Add(values[i-1], window[i].Record.LiquidityNet)
	}

	return values, nil
}
