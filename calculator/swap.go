// Package calculator produces quotes against decoded pool state: swaps
// across initialized ticks and resting limit orders, limit order placement
// and teardown, liquidity changes, position math and order book depth.
//
// Everything on the settlement path is integer math with on-chain rounding;
// the order book and price helpers are float display paths.
package calculator

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/feemath"
	"github.com/defistate/fusionamm-go/calculator/sqrtpricemath"
	"github.com/defistate/fusionamm-go/calculator/tickarray"
	"github.com/defistate/fusionamm-go/calculator/tickmath"
	"github.com/defistate/fusionamm-go/calculator/u256math"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

var feeRateDen = uint256.NewInt(fusionamm.FeeRateDenominator)

// SwapResult is the raw outcome of a swap computation, before transfer fees
// and slippage wrapping.
type SwapResult struct {
	TokenA        uint64
	TokenB        uint64
	TotalFee      uint64
	NextSqrtPrice *uint256.Int
}

// ComputeSwap runs the tick-traversal swap loop: while tradable amount
// remains and the limit price is not reached, trade against concentrated
// liquidity up to the next initialized tick, fill that tick's resting limit
// orders when the price lands exactly on it, and cross. A nil or zero
// sqrtPriceLimit defaults to the price bound of the swap direction.
func ComputeSwap(
	tokenAmount uint64,
	sqrtPriceLimit *uint256.Int,
	pool *fusionamm.Pool,
	seq *tickarray.Sequence,
	aToB bool,
	specifiedInput bool,
) (*SwapResult, error) {
	limit := sqrtPriceLimit
	if limit == nil || limit.IsZero() {
		if aToB {
			limit = fusionamm.MinSqrtPrice
		} else {
			limit = fusionamm.MaxSqrtPrice
		}
	}
	if limit.Lt(fusionamm.MinSqrtPrice) || limit.Gt(fusionamm.MaxSqrtPrice) {
		return nil, fusionamm.ErrSqrtPriceLimitOutOfBounds
	}
	if (aToB && limit.Cmp(pool.SqrtPrice) >= 0) || (!aToB && limit.Cmp(pool.SqrtPrice) <= 0) {
		return nil, fusionamm.ErrInvalidSqrtPriceLimitDirection
	}
	if tokenAmount == 0 {
		return nil, fusionamm.ErrZeroTradableAmount
	}

	var (
		remaining  = tokenAmount
		calculated uint64
		totalFee   uint64

		currentSqrtPrice = pool.SqrtPrice.Clone()
		currentTickIndex = pool.TickCurrentIndex
		liquidity        = pool.Liquidity.Clone()
	)

	for remaining > 0 && !limit.Eq(currentSqrtPrice) {
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
			return nil, err
		}
		nextTickSqrtPrice, err := tickmath.TickIndexToSqrtPrice(nextTickIndex)
		if err != nil {
			return nil, err
		}

		target := nextTickSqrtPrice
		if aToB {
			if limit.Gt(target) {
				target = limit
			}
		} else {
			if limit.Lt(target) {
				target = limit
			}
		}

		step, err := computeSwapStep(remaining, pool.FeeRate, liquidity, currentSqrtPrice, target, aToB, specifiedInput)
		if err != nil {
			return nil, err
		}
		if totalFee, err = addU64(totalFee, step.feeAmount); err != nil {
			return nil, err
		}
		if specifiedInput {
			spent, err := addU64(step.amountIn, step.feeAmount)
			if err != nil {
				return nil, err
			}
			if remaining, err = subU64(remaining, spent); err != nil {
				return nil, err
			}
			if calculated, err = addU64(calculated, step.amountOut); err != nil {
				return nil, err
			}
		} else {
			if remaining, err = subU64(remaining, step.amountOut); err != nil {
				return nil, err
			}
			gained, err := addU64(step.amountIn, step.feeAmount)
			if err != nil {
				return nil, err
			}
			if calculated, err = addU64(calculated, gained); err != nil {
				return nil, err
			}
		}

		switch {
		case step.nextSqrtPrice.Eq(nextTickSqrtPrice):
			fill, err := fillLimitOrders(nextTick, nextTickSqrtPrice, aToB, specifiedInput, remaining, pool.FeeRate)
			if err != nil {
				return nil, err
			}
			if totalFee, err = addU64(totalFee, fill.feeAmount); err != nil {
				return nil, err
			}
			if specifiedInput {
				spent, err := addU64(fill.amountIn, fill.feeAmount)
				if err != nil {
					return nil, err
				}
				if remaining, err = subU64(remaining, spent); err != nil {
					return nil, err
				}
				if calculated, err = addU64(calculated, fill.amountOut); err != nil {
					return nil, err
				}
			} else {
				if remaining, err = subU64(remaining, fill.amountOut); err != nil {
					return nil, err
				}
				gained, err := addU64(fill.amountIn, fill.feeAmount)
				if err != nil {
					return nil, err
				}
				if calculated, err = addU64(calculated, gained); err != nil {
					return nil, err
				}
			}
			if liquidity, err = nextLiquidity(liquidity, nextTick, aToB); err != nil {
				return nil, err
			}
			if aToB {
				currentTickIndex = nextTickIndex - 1
			} else {
				currentTickIndex = nextTickIndex
			}
		case !step.nextSqrtPrice.Eq(currentSqrtPrice):
			if currentTickIndex, err = tickmath.SqrtPriceToTickIndex(step.nextSqrtPrice); err != nil {
				return nil, err
			}
		}
		currentSqrtPrice = step.nextSqrtPrice
	}

	swapped := tokenAmount - remaining
	result := &SwapResult{NextSqrtPrice: currentSqrtPrice}
	if aToB == specifiedInput {
		result.TokenA, result.TokenB = swapped, calculated
	} else {
		result.TokenA, result.TokenB = calculated, swapped
	}
	result.TotalFee = totalFee
	return result, nil
}

type swapStep struct {
	amountIn      uint64
	amountOut     uint64
	feeAmount     uint64
	nextSqrtPrice *uint256.Int
}

// computeSwapStep trades toward targetSqrtPrice within one tick interval.
// When the fee-adjusted fixed amount covers the full interval the price
// lands on the target; otherwise the price is derived from the amount and
// the fixed side is recomputed against it.
func computeSwapStep(
	amountRemaining uint64,
	feeRate uint16,
	liquidity, currentSqrtPrice, targetSqrtPrice *uint256.Int,
	aToB, specifiedInput bool,
) (*swapStep, error) {
	initialFixedDelta, err := fixedDelta(currentSqrtPrice, targetSqrtPrice, liquidity, aToB, specifiedInput)
	overflow := false
	if err != nil {
		if !errors.Is(err, fusionamm.ErrAmountExceedsMaxU64) {
			return nil, err
		}
		overflow = true
	}

	amountCalculated := amountRemaining
	if specifiedInput {
		if amountCalculated, err = feemath.ApplySwapFee(amountRemaining, feeRate); err != nil {
			return nil, err
		}
	}

	var next *uint256.Int
	if !overflow && initialFixedDelta <= amountCalculated {
		next = targetSqrtPrice.Clone()
	} else {
		if next, err = nextSqrtPrice(currentSqrtPrice, liquidity, amountCalculated, aToB, specifiedInput); err != nil {
			return nil, err
		}
	}
	isMaxSwap := next.Eq(targetSqrtPrice)

	unfixed, err := unfixedDelta(currentSqrtPrice, next, liquidity, aToB, specifiedInput)
	if err != nil {
		return nil, err
	}
	fixed := initialFixedDelta
	if !isMaxSwap || overflow {
		if fixed, err = fixedDelta(currentSqrtPrice, next, liquidity, aToB, specifiedInput); err != nil {
			return nil, err
		}
	}

	step := &swapStep{nextSqrtPrice: next}
	if specifiedInput {
		step.amountIn, step.amountOut = fixed, unfixed
	} else {
		step.amountIn, step.amountOut = unfixed, fixed
	}
	if !specifiedInput && step.amountOut > amountRemaining {
		step.amountOut = amountRemaining
	}

	if specifiedInput && !isMaxSwap {
		step.feeAmount = amountRemaining - step.amountIn
	} else {
		preFee, err := feemath.ReverseApplySwapFee(step.amountIn, feeRate)
		if err != nil {
			return nil, err
		}
		step.feeAmount = preFee - step.amountIn
	}
	return step, nil
}

type limitOrderFill struct {
	amountIn  uint64
	feeAmount uint64
	amountOut uint64
}

// fillLimitOrders consumes the resting orders parked on a crossed tick: the
// open input plus the remaining input of partially filled orders, all quoted
// at the tick's sqrt price. On exact-in the fill is capped pro rata by the
// remaining amount; on exact-out it is capped by the requested output.
func fillLimitOrders(
	tick *fusionamm.Tick,
	sqrtPrice *uint256.Int,
	aToB, specifiedInput bool,
	amountRemaining uint64,
	feeRate uint16,
) (*limitOrderFill, error) {
	fill := &limitOrderFill{}
	if tick == nil {
		return fill, nil
	}
	pendingInput, err := addU64(tick.OpenOrdersInput, tick.PartFilledOrdersRemainingInput)
	if err != nil {
		return nil, err
	}
	if pendingInput == 0 {
		return fill, nil
	}

	feeNum := uint256.NewInt(uint64(feeRate))
	feeRemainder := uint256.NewInt(fusionamm.FeeRateDenominator - uint64(feeRate))

	if specifiedInput {
		if fill.amountIn, err = sqrtpricemath.LimitOrderOutputAmount(pendingInput, !aToB, sqrtPrice, true); err != nil {
			return nil, err
		}
		fill.amountOut = pendingInput
		if fill.feeAmount, err = u256math.MulDivU64(fill.amountIn, feeNum, feeRemainder, true); err != nil {
			return nil, err
		}
		gross, err := addU64(fill.amountIn, fill.feeAmount)
		if err != nil {
			return nil, err
		}
		if amountRemaining < gross {
			total := fill.amountIn
			if fill.feeAmount, err = u256math.MulDivU64(amountRemaining, feeNum, feeRateDen, true); err != nil {
				return nil, err
			}
			fill.amountIn = amountRemaining - fill.feeAmount
			if total == 0 {
				fill.amountOut = 0
			} else if fill.amountOut, err = u256math.MulDivU64(pendingInput, uint256.NewInt(fill.amountIn), uint256.NewInt(total), false); err != nil {
				return nil, err
			}
		}
		return fill, nil
	}

	fill.amountOut = pendingInput
	if amountRemaining < fill.amountOut {
		fill.amountOut = amountRemaining
	}
	if fill.amountIn, err = sqrtpricemath.LimitOrderOutputAmount(fill.amountOut, !aToB, sqrtPrice, true); err != nil {
		return nil, err
	}
	if fill.feeAmount, err = u256math.MulDivU64(fill.amountIn, feeNum, feeRemainder, true); err != nil {
		return nil, err
	}
	return fill, nil
}

// nextLiquidity applies a crossed tick's liquidity net to the pool
// liquidity. The sign flips with the traversal direction.
func nextLiquidity(liquidity *uint256.Int, tick *fusionamm.Tick, aToB bool) (*uint256.Int, error) {
	if tick == nil || tick.LiquidityNet == nil || tick.LiquidityNet.Sign() == 0 {
		return liquidity, nil
	}
	abs, overflow := uint256.FromBig(new(big.Int).Abs(tick.LiquidityNet))
	if overflow {
		return nil, fusionamm.ErrArithmeticOverflow
	}

	add := tick.LiquidityNet.Sign() > 0
	if aToB {
		add = !add
	}

	next := new(uint256.Int)
	if add {
		if _, carry := next.AddOverflow(liquidity, abs); carry {
			return nil, fusionamm.ErrArithmeticOverflow
		}
		if err := u256math.CheckU128(next); err != nil {
			return nil, err
		}
	} else {
		if _, borrow := next.SubOverflow(liquidity, abs); borrow {
			return nil, fusionamm.ErrArithmeticOverflow
		}
	}
	return next, nil
}

func fixedDelta(currentSqrtPrice, targetSqrtPrice, liquidity *uint256.Int, aToB, specifiedInput bool) (uint64, error) {
	if aToB == specifiedInput {
		return sqrtpricemath.AmountDeltaA(currentSqrtPrice, targetSqrtPrice, liquidity, specifiedInput)
	}
	return sqrtpricemath.AmountDeltaB(currentSqrtPrice, targetSqrtPrice, liquidity, specifiedInput)
}

func unfixedDelta(currentSqrtPrice, targetSqrtPrice, liquidity *uint256.Int, aToB, specifiedInput bool) (uint64, error) {
	if aToB == specifiedInput {
		return sqrtpricemath.AmountDeltaB(currentSqrtPrice, targetSqrtPrice, liquidity, !specifiedInput)
	}
	return sqrtpricemath.AmountDeltaA(currentSqrtPrice, targetSqrtPrice, liquidity, !specifiedInput)
}

func nextSqrtPrice(currentSqrtPrice, liquidity *uint256.Int, amount uint64, aToB, specifiedInput bool) (*uint256.Int, error) {
	if aToB == specifiedInput {
		return sqrtpricemath.NextSqrtPriceFromA(currentSqrtPrice, liquidity, amount, specifiedInput)
	}
	return sqrtpricemath.NextSqrtPriceFromB(currentSqrtPrice, liquidity, amount, specifiedInput)
}

func addU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fusionamm.ErrArithmeticOverflow
	}
	return sum, nil
}

func subU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fusionamm.ErrArithmeticOverflow
	}
	return a - b, nil
}
