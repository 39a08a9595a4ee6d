package model

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestCurvePointJSONStringFields(t *testing.T) {
	record := ZeroTickRecord()
	record.LiquidityGross = big.NewInt(5000)
	record.LiquidityNet = big.NewInt(-5000)
	record.Initialized = true

	point := NewCurvePoint(TickWindowEntry{Tick: 600, Record: record}, big.NewInt(123456), 1.0618)

	data, err := json.Marshal(point)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["liquidity_gross"].(string); !ok {
		t.Fatalf("liquidity_gross should be string")
	}
	if _, ok := decoded["liquidity_net"].(string); !ok {
		t.Fatalf("liquidity_net should be string")
	}
	if _, ok := decoded["liquidity_active"].(string); !ok {
		t.Fatalf("liquidity_active should be string")
	}
	if decoded["liquidity_net"] != "-5000" {
		t.Fatalf("liquidity_net mismatch: %v", decoded["liquidity_net"])
	}
}

func TestZeroTickRecordSentinel(t *testing.T) {
	record := ZeroTickRecord()
	if record.Initialized {
		t.Fatalf("sentinel must not be initialized")
	}
	if record.LiquidityGross.Sign() != 0 || record.LiquidityNet.Sign() != 0 {
		t.Fatalf("sentinel liquidity must be zero")
	}
	if record.FeeGrowthOutside0X128 == nil || record.FeeGrowthOutside1X128 == nil {
		t.Fatalf("accumulators must be allocated")
	}
}
