package calculator

import (
	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/feemath"
	"github.com/defistate/fusionamm-go/calculator/sqrtpricemath"
	"github.com/defistate/fusionamm-go/calculator/tickmath"
	"github.com/defistate/fusionamm-go/calculator/u256math"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

var protocolRateDen = uint256.NewInt(fusionamm.ProtocolFeeRateDenominator)

// LimitOrderQuoteByInputToken returns the output a resting limit order at
// tickIndex earns for amountIn, including the order placer's share of the
// swap fee: the fee net of the order protocol cut, minus the CLP reward.
func LimitOrderQuoteByInputToken(amountIn uint64, aToB bool, tickIndex int32, pool *fusionamm.Pool) (uint64, error) {
	sqrtPrice, err := tickmath.TickIndexToSqrtPrice(tickIndex)
	if err != nil {
		return 0, err
	}
	out, err := sqrtpricemath.LimitOrderOutputAmount(amountIn, aToB, sqrtPrice, false)
	if err != nil {
		return 0, err
	}

	preFee, err := feemath.ReverseApplySwapFee(out, pool.FeeRate)
	if err != nil {
		return 0, err
	}
	swapFee := preFee - out
	protocolCut, err := u256math.MulDivU64(swapFee, uint256.NewInt(uint64(pool.OrderProtocolFeeRate)), protocolRateDen, false)
	if err != nil {
		return 0, err
	}
	swapFee -= protocolCut

	olpRate := uint256.NewInt(fusionamm.ProtocolFeeRateDenominator - uint64(pool.ClpRewardRate))
	olpShare, err := u256math.MulDivU64(swapFee, olpRate, protocolRateDen, false)
	if err != nil {
		return 0, err
	}
	return addU64(out, swapFee-olpShare)
}

// LimitOrderQuoteByOutputToken returns the input amount a limit order at
// tickIndex needs to deliver amountOut. This inverts the fee share with
// float math and is a sizing helper, not a settlement amount.
func LimitOrderQuoteByOutputToken(amountOut uint64, aToB bool, tickIndex int32, pool *fusionamm.Pool) (uint64, error) {
	sqrtPrice, err := tickmath.TickIndexToSqrtPrice(tickIndex)
	if err != nil {
		return 0, err
	}

	f := float64(pool.FeeRate) / float64(fusionamm.FeeRateDenominator)
	p := float64(pool.OrderProtocolFeeRate) / float64(fusionamm.ProtocolFeeRateDenominator)
	r := float64(pool.ClpRewardRate) / float64(fusionamm.ProtocolFeeRateDenominator)
	denominator := 1.0 + f/(1.0-f)*(1.0-r)*(1.0-p)
	raw := float64(amountOut) / denominator
	if raw < 0 || raw >= q64Float {
		return 0, fusionamm.ErrAmountExceedsMaxU64
	}

	return sqrtpricemath.LimitOrderOutputAmount(uint64(raw), !aToB, sqrtPrice, true)
}

// DecreaseLimitOrderQuote quotes closing amount of an order against the
// current state of its tick. The order's age relative to the tick decides
// the lifecycle stage: same age means untouched, one crossing means
// partially filled pro rata, two or more means fully filled. Any filled
// portion carries a pro-rata share of the OLP fee owed on the pool.
func DecreaseLimitOrderQuote(
	pool *fusionamm.Pool,
	order *fusionamm.LimitOrder,
	tick *fusionamm.Tick,
	amount uint64,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.DecreaseLimitOrderQuote, error) {
	if amount > order.Amount {
		return nil, fusionamm.ErrAmountExceedsLimitOrderInput
	}

	var amountIn, amountOut uint64
	switch {
	case order.Age == tick.Age:
		amountIn, amountOut = amount, 0
	case order.Age+1 == tick.Age:
		if tick.PartFilledOrdersInput == 0 {
			return nil, fusionamm.ErrLimitOrderAndPoolAreOutOfSync
		}
		sqrtPrice, err := tickmath.TickIndexToSqrtPrice(order.TickIndex)
		if err != nil {
			return nil, err
		}
		remainingIn, err := u256math.MulDivU64(
			amount,
			uint256.NewInt(tick.PartFilledOrdersRemainingInput),
			uint256.NewInt(tick.PartFilledOrdersInput),
			false,
		)
		if err != nil {
			return nil, err
		}
		if amountOut, err = sqrtpricemath.LimitOrderOutputAmount(amount-remainingIn, order.AToB, sqrtPrice, false); err != nil {
			return nil, err
		}
		amountIn = remainingIn
	case order.Age+2 <= tick.Age:
		sqrtPrice, err := tickmath.TickIndexToSqrtPrice(order.TickIndex)
		if err != nil {
			return nil, err
		}
		amountIn = 0
		if amountOut, err = sqrtpricemath.LimitOrderOutputAmount(amount, order.AToB, sqrtPrice, false); err != nil {
			return nil, err
		}
	default:
		return nil, fusionamm.ErrLimitOrderAndPoolAreOutOfSync
	}

	quote := &fusionamm.DecreaseLimitOrderQuote{}
	filled := amount - amountIn
	var outA, outB uint64
	if order.AToB {
		if filled > 0 {
			if pool.OrdersFilledAmountA == 0 {
				return nil, fusionamm.ErrLimitOrderAndPoolAreOutOfSync
			}
			reward, err := u256math.MulDivU64(
				pool.OlpFeeOwedB,
				uint256.NewInt(filled),
				uint256.NewInt(pool.OrdersFilledAmountA),
				false,
			)
			if err != nil {
				return nil, err
			}
			quote.RewardB = reward
		}
		outA, outB = amountIn, amountOut+quote.RewardB
	} else {
		if filled > 0 {
			if pool.OrdersFilledAmountB == 0 {
				return nil, fusionamm.ErrLimitOrderAndPoolAreOutOfSync
			}
			reward, err := u256math.MulDivU64(
				pool.OlpFeeOwedA,
				uint256.NewInt(filled),
				uint256.NewInt(pool.OrdersFilledAmountB),
				false,
			)
			if err != nil {
				return nil, err
			}
			quote.RewardA = reward
		}
		outA, outB = amountOut+quote.RewardA, amountIn
	}

	var err error
	if quote.AmountOutA, err = feemath.ApplyTransferFee(outA, transferFeeA); err != nil {
		return nil, err
	}
	if quote.AmountOutB, err = feemath.ApplyTransferFee(outB, transferFeeB); err != nil {
		return nil, err
	}
	return quote, nil
}
