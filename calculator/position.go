package calculator

import (
	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/tickmath"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// PositionStatus locates the tick range against the pool sqrt price. A range
// with equal ticks is invalid; the boundaries themselves count as out of
// range.
func PositionStatus(sqrtPrice *uint256.Int, tickIndex1, tickIndex2 int32) (fusionamm.PositionStatus, error) {
	if tickIndex1 == tickIndex2 {
		return fusionamm.PositionInvalid, nil
	}
	r := tickmath.OrderTickIndexes(tickIndex1, tickIndex2)
	lower, err := tickmath.TickIndexToSqrtPrice(r.TickLowerIndex)
	if err != nil {
		return fusionamm.PositionInvalid, err
	}
	upper, err := tickmath.TickIndexToSqrtPrice(r.TickUpperIndex)
	if err != nil {
		return fusionamm.PositionInvalid, err
	}
	switch {
	case sqrtPrice.Cmp(lower) <= 0:
		return fusionamm.PositionBelowRange, nil
	case sqrtPrice.Cmp(upper) >= 0:
		return fusionamm.PositionAboveRange, nil
	default:
		return fusionamm.PositionInRange, nil
	}
}

// IsPositionInRange reports whether the pool price sits strictly inside the
// tick range.
func IsPositionInRange(sqrtPrice *uint256.Int, tickIndex1, tickIndex2 int32) (bool, error) {
	status, err := PositionStatus(sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return false, err
	}
	return status == fusionamm.PositionInRange, nil
}

// PositionRatio returns the Q64.64 deposit ratio of the range at the given
// sqrt price: the share of the position's value held in each token, with
// RatioA + RatioB == 2^64.
func PositionRatio(sqrtPrice *uint256.Int, tickIndex1, tickIndex2 int32) (*fusionamm.PositionRatio, error) {
	status, err := PositionStatus(sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	one := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	switch status {
	case fusionamm.PositionInvalid:
		return &fusionamm.PositionRatio{RatioA: new(uint256.Int), RatioB: new(uint256.Int)}, nil
	case fusionamm.PositionBelowRange:
		return &fusionamm.PositionRatio{RatioA: one, RatioB: new(uint256.Int)}, nil
	case fusionamm.PositionAboveRange:
		return &fusionamm.PositionRatio{RatioA: new(uint256.Int), RatioB: one}, nil
	}

	r := tickmath.OrderTickIndexes(tickIndex1, tickIndex2)
	lower, err := tickmath.TickIndexToSqrtPrice(r.TickLowerIndex)
	if err != nil {
		return nil, err
	}
	upper, err := tickmath.TickIndexToSqrtPrice(r.TickUpperIndex)
	if err != nil {
		return nil, err
	}

	// Value both legs of a unit (2^64) liquidity position in token B terms.
	// amountA is converted through the squared price so the two legs share
	// one denominator.
	unit := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	price := new(uint256.Int).Mul(sqrtPrice, sqrtPrice)

	amountA := new(uint256.Int).Div(unit, sqrtPrice)
	amountA.Sub(amountA, new(uint256.Int).Div(unit, upper))
	amountA.Mul(amountA, price).Rsh(amountA, 64)

	amountB := new(uint256.Int).Sub(sqrtPrice, lower)
	amountB.Lsh(amountB, 64)

	total := new(uint256.Int).Add(amountA, amountB)
	ratioA := amountA.Lsh(amountA, 64)
	ratioA.Div(ratioA, total)
	ratioB := new(uint256.Int).Sub(one, ratioA)
	return &fusionamm.PositionRatio{RatioA: ratioA, RatioB: ratioB}, nil
}
