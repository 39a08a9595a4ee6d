package pricing

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestTickToPriceMonotonic(t *testing.T) {
	prev := TickToPrice(-1000)
	for tick := int32(-999); tick <= 1000; tick++ {
		price := TickToPrice(tick)
		if price <= prev {
			t.Fatalf("price not strictly increasing at tick %d: %v <= %v", tick, price, prev)
		}
		prev = price
	}
}

func TestPriceTickRoundTrip(t *testing.T) {
	for _, tick := range []int32{-887272, -120000, -60, -1, 0, 1, 60, 120000, 887272} {
		got, err := PriceToTick(TickToPrice(tick))
		if err != nil {
			t.Fatalf("round trip failed at tick %d: %v", tick, err)
		}
		if got < tick-1 || got > tick+1 {
			t.Fatalf("round trip at tick %d gave %d, want within +/-1", tick, got)
		}
	}
}

func TestPriceToTickInvalid(t *testing.T) {
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := PriceToTick(price); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("price %v: expected ErrInvalidPrice, got %v", price, err)
		}
	}
}

func TestTickToQuotePriceDecimalAdjustment(t *testing.T) {
	// USDC(6)/WETH(18) style pair at tick 0: raw ratio 1, adjusted by 10^-12.
	price := TickToQuotePrice(0, 6, 18, false)
	if math.Abs(price-1e-12)/1e-12 > 1e-9 {
		t.Fatalf("decimal adjustment mismatch: %v", price)
	}

	// Inverted orientation when token0 is the quote asset.
	inverted := TickToQuotePrice(0, 6, 18, true)
	if math.Abs(inverted-1e12) > 1 {
		t.Fatalf("inverted price mismatch: %v", inverted)
	}

	// Negative decimal difference (token1 has fewer decimals).
	price = TickToQuotePrice(0, 18, 6, false)
	if math.Abs(price-1e12) > 1 {
		t.Fatalf("negative exponent adjustment mismatch: %v", price)
	}
}

func TestSqrtPriceX96RoundTrip(t *testing.T) {
	// sqrtPriceX96 = 2^96 encodes a raw ratio of exactly 1.
	one := new(big.Int).Lsh(big.NewInt(1), 96)
	price, err := SqrtPriceX96ToPrice(one, 18, 18, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(price-1) > 1e-12 {
		t.Fatalf("price at 2^96 should be 1, got %v", price)
	}

	back, err := PriceToSqrtPriceX96(price, 18, 18, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := new(big.Int).Sub(back, one)
	if diff.CmpAbs(big.NewInt(1<<20)) > 0 {
		t.Fatalf("sqrt price round trip drifted: %s vs %s", back, one)
	}
}

func TestSqrtPriceX96Invalid(t *testing.T) {
	if _, err := SqrtPriceX96ToPrice(nil, 18, 18, false); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("nil sqrt price: expected ErrInvalidPrice, got %v", err)
	}
	if _, err := SqrtPriceX96ToPrice(big.NewInt(0), 18, 18, false); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("zero sqrt price: expected ErrInvalidPrice, got %v", err)
	}
	if _, err := PriceToSqrtPriceX96(-2, 18, 18, false); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("negative price: expected ErrInvalidPrice, got %v", err)
	}
}
