package dex

import (
	"math/big"
	"testing"
)

func TestV3PoolABITickTuple(t *testing.T) {
	poolABI, err := V3PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	packed, err := poolABI.Methods["ticks"].Outputs.Pack(
		big.NewInt(5000),
		big.NewInt(-5000),
		big.NewInt(111),
		big.NewInt(222),
		big.NewInt(-333),
		big.NewInt(444),
		uint32(555),
		true,
	)
	if err != nil {
		t.Fatalf("pack ticks outputs: %v", err)
	}

	values, err := poolABI.Unpack("ticks", packed)
	if err != nil {
		t.Fatalf("unpack ticks: %v", err)
	}

	record, err := parseTickRecord(values)
	if err != nil {
		t.Fatalf("parse tick record: %v", err)
	}

	if record.LiquidityGross.Cmp(big.NewInt(5000)) != 0 {
		t.Fatalf("liquidity gross mismatch: %s", record.LiquidityGross)
	}
	if record.LiquidityNet.Cmp(big.NewInt(-5000)) != 0 {
		t.Fatalf("liquidity net mismatch: %s", record.LiquidityNet)
	}
	if record.TickCumulativeOutside.Cmp(big.NewInt(-333)) != 0 {
		t.Fatalf("tick cumulative mismatch: %s", record.TickCumulativeOutside)
	}
	if record.SecondsOutside != 555 {
		t.Fatalf("seconds outside mismatch: %d", record.SecondsOutside)
	}
	if !record.Initialized {
		t.Fatalf("initialized flag lost")
	}
}

func TestParseTickRecordWrongArity(t *testing.T) {
	if _, err := parseTickRecord([]interface{}{big.NewInt(1)}); err == nil {
		t.Fatalf("expected error for short tuple")
	}
}

func TestV3PoolABITickBitmapArgs(t *testing.T) {
	poolABI, err := V3PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	// tickBitmap takes an int16 word position; negative words must pack.
	if _, err := poolABI.Pack("tickBitmap", int16(-58)); err != nil {
		t.Fatalf("pack tickBitmap: %v", err)
	}
	if _, err := poolABI.Pack("ticks", big.NewInt(-887272)); err != nil {
		t.Fatalf("pack ticks: %v", err)
	}
}
