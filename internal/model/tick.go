package model

import "math/big"

// TickRecord is the per-tick pool state returned by the ticks() call.
// The fee-growth and seconds accumulators are carried through unchanged;
// nothing in this codebase interprets them.
type TickRecord struct {
	LiquidityGross                 *big.Int
	LiquidityNet                   *big.Int
	FeeGrowthOutside0X128          *big.Int
	FeeGrowthOutside1X128          *big.Int
	TickCumulativeOutside          *big.Int
	SecondsPerLiquidityOutsideX128 *big.Int
	SecondsOutside                 uint32
	Initialized                    bool
}

// ZeroTickRecord returns the sentinel record used for ticks with no on-chain
// data and for ticks whose lookup failed.
func ZeroTickRecord() TickRecord {
	return TickRecord{
		LiquidityGross:                 new(big.Int),
		LiquidityNet:                   new(big.Int),
		FeeGrowthOutside0X128:          new(big.Int),
		FeeGrowthOutside1X128:          new(big.Int),
		TickCumulativeOutside:          new(big.Int),
		SecondsPerLiquidityOutsideX128: new(big.Int),
	}
}

// TickWindowEntry pairs a tick index with its record.
type TickWindowEntry struct {
	Tick   int32
	Record TickRecord
}

// TickWindow is an index-ascending sequence of tick entries.
type TickWindow []TickWindowEntry
