package calculator

import (
	"errors"
	"math"

	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/sqrtpricemath"
	"github.com/defistate/fusionamm-go/calculator/tickarray"
	"github.com/defistate/fusionamm-go/calculator/tickmath"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// MaxOrderBookEntries caps one aggregated book side.
const MaxOrderBookEntries = 100

// minOrderBookPriceStep is the smallest bucket width the float walk can
// still advance by.
const minOrderBookPriceStep = 1e-13

var (
	ErrPriceStepTooSmall       = errors.New("order book price step too small")
	ErrTooManyOrderBookEntries = errors.New("order book entries above limit")
)

// OrderBookSide aggregates one side of a display order book by walking the
// tick sequence away from the pool price in fixed price-step buckets. The
// sign of priceStep picks the side (positive walks prices up); invertPrice
// flips the quoting direction for pairs displayed upside down.
//
// Concentrated liquidity is converted with float math and clamped per step;
// resting limit orders are added at their tick price. The walk stops at the
// price bounds, at maxEntries, or when the tick sequence runs out.
// maxEntries must not exceed MaxOrderBookEntries, and the step magnitude
// must be at least 1e-13.
func OrderBookSide(
	pool *fusionamm.Pool,
	seq *tickarray.Sequence,
	priceStep float64,
	maxEntries int,
	invertPrice bool,
	decimalsA, decimalsB uint8,
) ([]fusionamm.OrderBookEntry, error) {
	if math.IsNaN(priceStep) || math.Abs(priceStep) < minOrderBookPriceStep {
		return nil, ErrPriceStepTooSmall
	}
	if maxEntries > MaxOrderBookEntries {
		return nil, ErrTooManyOrderBookEntries
	}
	aToB := (priceStep < 0) != invertPrice

	currentPrice := SqrtPriceToPrice(pool.SqrtPrice, decimalsA, decimalsB)
	if invertPrice {
		currentPrice = 1.0 / currentPrice
	}
	step := math.Abs(priceStep)
	var bucketPrice float64
	if priceStep > 0 {
		bucketPrice = math.Floor(currentPrice/step) * step
	} else {
		bucketPrice = math.Ceil(currentPrice/step) * step
	}

	var (
		currentSqrtPrice = pool.SqrtPrice.Clone()
		currentTickIndex = pool.TickCurrentIndex
		liquidity        = pool.Liquidity.Clone()

		concentratedTotal      uint64
		concentratedTotalQuote uint64
		limitTotal             uint64
		limitTotalQuote        uint64
	)

	minPrice := SqrtPriceToPrice(fusionamm.MinSqrtPrice, 1, 1)
	maxPrice := SqrtPriceToPrice(fusionamm.MaxSqrtPrice, 1, 1)

	var entries []fusionamm.OrderBookEntry
	for {
		if currentPrice == minPrice || currentPrice == maxPrice || len(entries) >= maxEntries {
			return entries, nil
		}
		bucketPrice = math.Min(math.Max(bucketPrice+priceStep, minPrice), maxPrice)
		quotedPrice := bucketPrice
		if invertPrice {
			quotedPrice = 1.0 / bucketPrice
		}
		bucketSqrtPrice := PriceToSqrtPrice(quotedPrice, decimalsA, decimalsB)
		if bucketSqrtPrice.Lt(fusionamm.MinSqrtPrice) {
			bucketSqrtPrice = fusionamm.MinSqrtPrice.Clone()
		} else if bucketSqrtPrice.Gt(fusionamm.MaxSqrtPrice) {
			bucketSqrtPrice = fusionamm.MaxSqrtPrice.Clone()
		}

		entries = append(entries, fusionamm.OrderBookEntry{
			ConcentratedTotal:      concentratedTotal,
			ConcentratedTotalQuote: concentratedTotalQuote,
			LimitTotal:             limitTotal,
			LimitTotalQuote:        limitTotalQuote,
			Price:                  bucketPrice,
			AskSide:                !aToB,
		})
		entry := &entries[len(entries)-1]

		for !currentSqrtPrice.Eq(bucketSqrtPrice) {
			var (
				nextTick      *fusionamm.Tick
				nextTickIndex int32
				err           error
			)
			if aToB {
				nextTick, nextTickIndex, err = seq.PrevInitializedTick(currentTickIndex)
			} else {
				nextTick, nextTickIndex, err = seq.NextInitializedTick(currentTickIndex)
			}
			if err != nil {
				// The sequence ran out of coverage; the book ends here.
				return entries, nil
			}
			nextTickSqrtPrice, err := tickmath.TickIndexToSqrtPrice(nextTickIndex)
			if err != nil {
				return nil, err
			}
			nextSqrtPrice := nextTickSqrtPrice
			if aToB {
				if bucketSqrtPrice.Gt(nextSqrtPrice) {
					nextSqrtPrice = bucketSqrtPrice
				}
			} else {
				if bucketSqrtPrice.Lt(nextSqrtPrice) {
					nextSqrtPrice = bucketSqrtPrice
				}
			}

			deltaA, deltaB := floatAmountDeltas(currentSqrtPrice, nextSqrtPrice, liquidity)
			amount, quote := deltaA, deltaB
			if aToB {
				amount, quote = deltaB, deltaA
			}
			entry.ConcentratedAmount += amount
			entry.ConcentratedAmountQuote = saturatingAddU64(entry.ConcentratedAmountQuote, quote)
			entry.ConcentratedTotal += amount
			concentratedTotal += amount
			entry.ConcentratedTotalQuote = saturatingAddU64(entry.ConcentratedTotalQuote, quote)
			concentratedTotalQuote = saturatingAddU64(concentratedTotalQuote, quote)

			currentSqrtPrice = nextSqrtPrice
			if currentSqrtPrice.Eq(nextTickSqrtPrice) {
				if nextTick != nil {
					restingInput, err := addU64(nextTick.OpenOrdersInput, nextTick.PartFilledOrdersRemainingInput)
					if err != nil {
						return nil, err
					}
					var restingQuote uint64
					if restingInput > 0 {
						if restingQuote, err = sqrtpricemath.LimitOrderOutputAmount(restingInput, !aToB, currentSqrtPrice, false); err != nil {
							return nil, err
						}
					}
					entry.LimitAmount += restingInput
					entry.LimitAmountQuote += restingQuote
					entry.LimitTotal += restingInput
					limitTotal += restingInput
					entry.LimitTotalQuote += restingQuote
					limitTotalQuote += restingQuote
				}
				if liquidity, err = nextLiquidity(liquidity, nextTick, aToB); err != nil {
					return nil, err
				}
				if aToB {
					currentTickIndex = nextTickIndex - 1
				} else {
					currentTickIndex = nextTickIndex
				}
			}
		}
		currentPrice = bucketPrice
	}
}

// floatAmountDeltas is the display-path version of the amount deltas: token
// B scales with the sqrt price gap, token A with its price-squared inverse.
// Results are truncated and clamped to the u64 range.
func floatAmountDeltas(sqrtPrice1, sqrtPrice2, liquidity *uint256.Int) (amountA, amountB uint64) {
	s1 := u256ToFloat(sqrtPrice1) / q64Float
	s2 := u256ToFloat(sqrtPrice2) / q64Float
	b := u256ToFloat(liquidity) * math.Abs(s2-s1)
	a := b / (s1 * s2)
	return clampFloatU64(a), clampFloatU64(b)
}

func clampFloatU64(v float64) uint64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v >= q64Float {
		return math.MaxUint64
	}
	return uint64(v)
}

func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}
