package model

import "math/big"

// CurvePoint is one row of the reconstructed liquidity curve: a tick, its
// on-chain deltas, and the derived absolute liquidity active at that tick.
// Big integers serialize as strings so downstream JSON consumers never see
// truncated numbers.
type CurvePoint struct {
	Tick            int32   `json:"tick"`
	Price           float64 `json:"price"`
	LiquidityGross  string  `json:"liquidity_gross"`
	LiquidityNet    string  `json:"liquidity_net"`
	LiquidityActive string  `json:"liquidity_active"`
	Initialized     bool    `json:"initialized"`
}

// NewCurvePoint builds a row from a window entry and its curve value.
func NewCurvePoint(entry TickWindowEntry, active *big.Int, price float64) CurvePoint {
	return CurvePoint{
		Tick:            entry.Tick,
		Price:           price,
		LiquidityGross:  entry.Record.LiquidityGross.String(),
		LiquidityNet:    entry.Record.LiquidityNet.String(),
		LiquidityActive: active.String(),
		Initialized:     entry.Record.Initialized,
	}
}
