package calculator

import (
	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/feemath"
	"github.com/defistate/fusionamm-go/calculator/sqrtpricemath"
	"github.com/defistate/fusionamm-go/calculator/tickmath"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// tokenEstimates derives the token amounts backing liquidityDelta over the
// range. Only the in-range token legs are non-zero; rounding favors the pool
// on increase (roundUp) and the pool again on decrease (round down).
func tokenEstimates(
	liquidityDelta *uint256.Int,
	sqrtPrice *uint256.Int,
	tickLowerIndex, tickUpperIndex int32,
	roundUp bool,
) (tokenA, tokenB uint64, err error) {
	lower, err := tickmath.TickIndexToSqrtPrice(tickLowerIndex)
	if err != nil {
		return 0, 0, err
	}
	upper, err := tickmath.TickIndexToSqrtPrice(tickUpperIndex)
	if err != nil {
		return 0, 0, err
	}
	status, err := PositionStatus(sqrtPrice, tickLowerIndex, tickUpperIndex)
	if err != nil {
		return 0, 0, err
	}
	switch status {
	case fusionamm.PositionBelowRange:
		tokenA, err = sqrtpricemath.AmountDeltaA(lower, upper, liquidityDelta, roundUp)
		return tokenA, 0, err
	case fusionamm.PositionInRange:
		if tokenA, err = sqrtpricemath.AmountDeltaA(sqrtPrice, upper, liquidityDelta, roundUp); err != nil {
			return 0, 0, err
		}
		tokenB, err = sqrtpricemath.AmountDeltaB(lower, sqrtPrice, liquidityDelta, roundUp)
		return tokenA, tokenB, err
	case fusionamm.PositionAboveRange:
		tokenB, err = sqrtpricemath.AmountDeltaB(lower, upper, liquidityDelta, roundUp)
		return 0, tokenB, err
	default:
		return 0, 0, nil
	}
}

// IncreaseLiquidityQuote quotes the token deposits for adding
// liquidityDelta over the tick range, grossed up for transfer fees and
// bounded by the slippage tolerance.
func IncreaseLiquidityQuote(
	liquidityDelta *uint256.Int,
	slippageToleranceBps uint16,
	sqrtPrice *uint256.Int,
	tickIndex1, tickIndex2 int32,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.IncreaseLiquidityQuote, error) {
	if liquidityDelta == nil || liquidityDelta.IsZero() {
		return &fusionamm.IncreaseLiquidityQuote{LiquidityDelta: new(uint256.Int)}, nil
	}
	r := tickmath.OrderTickIndexes(tickIndex1, tickIndex2)
	estA, estB, err := tokenEstimates(liquidityDelta, sqrtPrice, r.TickLowerIndex, r.TickUpperIndex, true)
	if err != nil {
		return nil, err
	}
	if estA, err = feemath.ReverseApplyTransferFee(estA, transferFeeA); err != nil {
		return nil, err
	}
	if estB, err = feemath.ReverseApplyTransferFee(estB, transferFeeB); err != nil {
		return nil, err
	}
	maxA, err := feemath.MaxAmountWithSlippage(estA, slippageToleranceBps)
	if err != nil {
		return nil, err
	}
	maxB, err := feemath.MaxAmountWithSlippage(estB, slippageToleranceBps)
	if err != nil {
		return nil, err
	}
	return &fusionamm.IncreaseLiquidityQuote{
		LiquidityDelta: liquidityDelta.Clone(),
		TokenEstA:      estA,
		TokenEstB:      estB,
		TokenMaxA:      maxA,
		TokenMaxB:      maxB,
	}, nil
}

// IncreaseLiquidityQuoteByTokenA sizes the liquidity delta from a token A
// deposit, net of its transfer fee. Above range, token A buys no liquidity.
func IncreaseLiquidityQuoteByTokenA(
	tokenAmountA uint64,
	slippageToleranceBps uint16,
	sqrtPrice *uint256.Int,
	tickIndex1, tickIndex2 int32,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.IncreaseLiquidityQuote, error) {
	netA, err := feemath.ApplyTransferFee(tokenAmountA, transferFeeA)
	if err != nil {
		return nil, err
	}
	liquidityDelta, err := liquidityFromTokenA(netA, sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	return IncreaseLiquidityQuote(liquidityDelta, slippageToleranceBps, sqrtPrice, tickIndex1, tickIndex2, transferFeeA, transferFeeB)
}

// IncreaseLiquidityQuoteByTokenB sizes the liquidity delta from a token B
// deposit, net of its transfer fee. Below range, token B buys no liquidity.
func IncreaseLiquidityQuoteByTokenB(
	tokenAmountB uint64,
	slippageToleranceBps uint16,
	sqrtPrice *uint256.Int,
	tickIndex1, tickIndex2 int32,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.IncreaseLiquidityQuote, error) {
	netB, err := feemath.ApplyTransferFee(tokenAmountB, transferFeeB)
	if err != nil {
		return nil, err
	}
	liquidityDelta, err := liquidityFromTokenB(netB, sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	return IncreaseLiquidityQuote(liquidityDelta, slippageToleranceBps, sqrtPrice, tickIndex1, tickIndex2, transferFeeA, transferFeeB)
}

// DecreaseLiquidityQuote quotes the token withdrawals for removing
// liquidityDelta over the tick range, net of transfer fees and bounded by
// the slippage tolerance.
func DecreaseLiquidityQuote(
	liquidityDelta *uint256.Int,
	slippageToleranceBps uint16,
	sqrtPrice *uint256.Int,
	tickIndex1, tickIndex2 int32,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.DecreaseLiquidityQuote, error) {
	if liquidityDelta == nil || liquidityDelta.IsZero() {
		return &fusionamm.DecreaseLiquidityQuote{LiquidityDelta: new(uint256.Int)}, nil
	}
	r := tickmath.OrderTickIndexes(tickIndex1, tickIndex2)
	estA, estB, err := tokenEstimates(liquidityDelta, sqrtPrice, r.TickLowerIndex, r.TickUpperIndex, false)
	if err != nil {
		return nil, err
	}
	if estA, err = feemath.ApplyTransferFee(estA, transferFeeA); err != nil {
		return nil, err
	}
	if estB, err = feemath.ApplyTransferFee(estB, transferFeeB); err != nil {
		return nil, err
	}
	minA, err := feemath.MinAmountWithSlippage(estA, slippageToleranceBps)
	if err != nil {
		return nil, err
	}
	minB, err := feemath.MinAmountWithSlippage(estB, slippageToleranceBps)
	if err != nil {
		return nil, err
	}
	return &fusionamm.DecreaseLiquidityQuote{
		LiquidityDelta: liquidityDelta.Clone(),
		TokenEstA:      estA,
		TokenEstB:      estB,
		TokenMinA:      minA,
		TokenMinB:      minB,
	}, nil
}

// DecreaseLiquidityQuoteByTokenA sizes the liquidity delta from a desired
// token A withdrawal, grossed up for its transfer fee.
func DecreaseLiquidityQuoteByTokenA(
	tokenAmountA uint64,
	slippageToleranceBps uint16,
	sqrtPrice *uint256.Int,
	tickIndex1, tickIndex2 int32,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.DecreaseLiquidityQuote, error) {
	grossA, err := feemath.ReverseApplyTransferFee(tokenAmountA, transferFeeA)
	if err != nil {
		return nil, err
	}
	liquidityDelta, err := liquidityFromTokenA(grossA, sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	return DecreaseLiquidityQuote(liquidityDelta, slippageToleranceBps, sqrtPrice, tickIndex1, tickIndex2, transferFeeA, transferFeeB)
}

// DecreaseLiquidityQuoteByTokenB sizes the liquidity delta from a desired
// token B withdrawal, grossed up for its transfer fee.
func DecreaseLiquidityQuoteByTokenB(
	tokenAmountB uint64,
	slippageToleranceBps uint16,
	sqrtPrice *uint256.Int,
	tickIndex1, tickIndex2 int32,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.DecreaseLiquidityQuote, error) {
	grossB, err := feemath.ReverseApplyTransferFee(tokenAmountB, transferFeeB)
	if err != nil {
		return nil, err
	}
	liquidityDelta, err := liquidityFromTokenB(grossB, sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	return DecreaseLiquidityQuote(liquidityDelta, slippageToleranceBps, sqrtPrice, tickIndex1, tickIndex2, transferFeeA, transferFeeB)
}

func liquidityFromTokenA(amount uint64, sqrtPrice *uint256.Int, tickIndex1, tickIndex2 int32) (*uint256.Int, error) {
	r := tickmath.OrderTickIndexes(tickIndex1, tickIndex2)
	lower, err := tickmath.TickIndexToSqrtPrice(r.TickLowerIndex)
	if err != nil {
		return nil, err
	}
	upper, err := tickmath.TickIndexToSqrtPrice(r.TickUpperIndex)
	if err != nil {
		return nil, err
	}
	status, err := PositionStatus(sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	switch status {
	case fusionamm.PositionBelowRange:
		return sqrtpricemath.LiquidityFromA(amount, lower, upper)
	case fusionamm.PositionInRange:
		return sqrtpricemath.LiquidityFromA(amount, sqrtPrice, upper)
	default:
		return new(uint256.Int), nil
	}
}

func liquidityFromTokenB(amount uint64, sqrtPrice *uint256.Int, tickIndex1, tickIndex2 int32) (*uint256.Int, error) {
	r := tickmath.OrderTickIndexes(tickIndex1, tickIndex2)
	lower, err := tickmath.TickIndexToSqrtPrice(r.TickLowerIndex)
	if err != nil {
		return nil, err
	}
	upper, err := tickmath.TickIndexToSqrtPrice(r.TickUpperIndex)
	if err != nil {
		return nil, err
	}
	status, err := PositionStatus(sqrtPrice, tickIndex1, tickIndex2)
	if err != nil {
		return nil, err
	}
	switch status {
	case fusionamm.PositionAboveRange:
		return sqrtpricemath.LiquidityFromB(amount, lower, upper)
	case fusionamm.PositionInRange:
		return sqrtpricemath.LiquidityFromB(amount, lower, sqrtPrice)
	default:
		return new(uint256.Int), nil
	}
}
