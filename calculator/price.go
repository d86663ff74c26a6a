package calculator

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/tickmath"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// q64Float is 2^64 as a float64.
const q64Float = 18446744073709551616.0

// PriceToSqrtPrice converts a human price (token B per token A, adjusted by
// token decimals) to a Q64.64 sqrt price. Float display path only.
func PriceToSqrtPrice(price float64, decimalsA, decimalsB uint8) *uint256.Int {
	scaled := price * math.Pow(10, float64(decimalsB)-float64(decimalsA))
	return floatToU256(math.Sqrt(scaled) * q64Float)
}

// SqrtPriceToPrice converts a Q64.64 sqrt price to a human price. Float
// display path only.
func SqrtPriceToPrice(sqrtPrice *uint256.Int, decimalsA, decimalsB uint8) float64 {
	q := u256ToFloat(sqrtPrice) / q64Float
	return q * q * math.Pow(10, float64(decimalsA)-float64(decimalsB))
}

// PriceToTickIndex returns the tick whose sqrt price is the greatest one not
// above the given human price.
func PriceToTickIndex(price float64, decimalsA, decimalsB uint8) (int32, error) {
	sqrtPrice := PriceToSqrtPrice(price, decimalsA, decimalsB)
	if sqrtPrice.Lt(fusionamm.MinSqrtPrice) {
		sqrtPrice = fusionamm.MinSqrtPrice
	} else if sqrtPrice.Gt(fusionamm.MaxSqrtPrice) {
		sqrtPrice = fusionamm.MaxSqrtPrice
	}
	return tickmath.SqrtPriceToTickIndex(sqrtPrice)
}

// TickIndexToPrice returns the human price at tick.
func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (float64, error) {
	sqrtPrice, err := tickmath.TickIndexToSqrtPrice(tick)
	if err != nil {
		return 0, err
	}
	return SqrtPriceToPrice(sqrtPrice, decimalsA, decimalsB), nil
}

func floatToU256(v float64) *uint256.Int {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return new(uint256.Int)
	}
	i, _ := new(big.Float).SetFloat64(v).Int(nil)
	u, overflow := uint256.FromBig(i)
	if overflow {
		return new(uint256.Int)
	}
	return u
}

func u256ToFloat(x *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(x.ToBig()).Float64()
	return f
}
