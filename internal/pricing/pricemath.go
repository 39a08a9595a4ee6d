// Package pricing converts between tick indices, sqrtPriceX96 encodings, and
// human-readable prices. Conversions are float64 analytical values, not the
// pool's 256-bit fixed-point accounting.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// tickBase is the price ratio between two adjacent ticks.
const tickBase = 1.0001

// ErrInvalidPrice rejects prices a tick cannot represent.
var ErrInvalidPrice = errors.New("price must be finite and positive")

var q96 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))

// TickToPrice returns the raw token1/token0 ratio at a tick, 1.0001^tick.
func TickToPrice(tick int32) float64 {
	return math.Pow(tickBase, float64(tick))
}

// PriceToTick returns the highest tick whose price does not exceed the given
// raw ratio.
func PriceToTick(price float64) (int32, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("price %v: %w", price, ErrInvalidPrice)
	}
	return int32(math.Floor(math.Log(price) / math.Log(tickBase))), nil
}

// TickToQuotePrice converts a tick into a price expressed in quote units per
// base unit. The raw ratio is corrected for the assets' decimal precisions;
// when token0 is the quote asset the ratio is inverted so the orientation is
// always quote-per-base. The decimal difference may be negative.
func TickToQuotePrice(tick int32, decimals0, decimals1 uint8, zeroIsQuote bool) float64 {
	price := TickToPrice(tick) / math.Pow(10, float64(int(decimals1)-int(decimals0)))
	if zeroIsQuote {
		price = 1 / price
	}
	return price
}

// SqrtPriceX96ToPrice converts the pool's fixed-point square-root price into
// a quote-per-base price, squaring out the encoding and applying the same
// decimal and orientation correction as TickToQuotePrice.
func SqrtPriceX96ToPrice(sqrtPriceX96 *big.Int, decimals0, decimals1 uint8, zeroIsQuote bool) (float64, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return 0, fmt.Errorf("sqrt price %v: %w", sqrtPriceX96, ErrInvalidPrice)
	}

	ratio, _ := new(big.Float).Quo(new(big.Float).SetInt(sqrtPriceX96), q96).Float64()
	price := ratio * ratio / math.Pow(10, float64(int(decimals1)-int(decimals0)))
	if zeroIsQuote {
		price = 1 / price
	}
	return price, nil
}

// PriceToSqrtPriceX96 is the inverse of SqrtPriceX96ToPrice.
func PriceToSqrtPriceX96(price float64, decimals0, decimals1 uint8, zeroIsQuote bool) (*big.Int, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, fmt.Errorf("price %v: %w", price, ErrInvalidPrice)
	}

	if zeroIsQuote {
		price = 1 / price
	}
	raw := price * math.Pow(10, float64(int(decimals1)-int(decimals0)))
	if math.IsInf(raw, 0) || raw <= 0 {
		return nil, fmt.Errorf("adjusted price %v: %w", raw, ErrInvalidPrice)
	}

	sqrt := new(big.Float).SetFloat64(math.Sqrt(raw))
	result, _ := new(big.Float).Mul(sqrt, q96).Int(nil)
	return result, nil
}
