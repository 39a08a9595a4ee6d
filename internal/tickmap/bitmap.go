package tickmap

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Tick bounds and word width of the V3 tick bitmap.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272

	// WordSize is the number of ticks tracked by one bitmap word.
	WordSize int32 = 256
)

// WordForTick returns the bitmap word index holding the given tick.
// Division rounds toward negative infinity so negative ticks land in the
// correct word.
func WordForTick(tick, tickSpacing int32) int32 {
	compressed := tick / tickSpacing
	if tick < 0 && tick%tickSpacing != 0 {
		compressed--
	}
	if compressed < 0 && compressed%WordSize != 0 {
		return compressed/WordSize - 1
	}
	return compressed / WordSize
}

// WordRange returns the inclusive word index range covering [minTick, maxTick].
func WordRange(minTick, maxTick, tickSpacing int32) (int32, int32, error) {
	if tickSpacing <= 0 {
		return 0, 0, fmt.Errorf("tick spacing must be greater than zero")
	}
	if maxTick < minTick {
		return 0, 0, fmt.Errorf("max tick must be >= min tick")
	}
	return WordForTick(minTick, tickSpacing), WordForTick(maxTick, tickSpacing), nil
}

// WordStartTick returns the tick represented by bit 0 of a word.
func WordStartTick(word, tickSpacing int32) int32 {
	return word * WordSize * tickSpacing
}

// DecodeWord expands one 256-bit bitmap word into the initialized tick
// indices it encodes, ascending by bit position and filtered to the valid
// tick range. Bits are tested directly against the word's 64-bit limbs.
func DecodeWord(word *uint256.Int, wordStartTick, tickSpacing int32) []int32 {
	if word == nil || word.IsZero() {
		return nil
	}

	ticks := make([]int32, 0, 8)
	for bit := int32(0); bit < WordSize; bit++ {
		limb := word[bit/64]
		if limb>>(uint(bit)%64)&1 == 0 {
			continue
		}
		tick := wordStartTick + bit*tickSpacing
		if tick < MinTick || tick > MaxTick {
			continue
		}
		ticks = append(ticks, tick)
	}
	return ticks
}
