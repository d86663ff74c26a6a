package calculator

import (
	"github.com/defistate/fusionamm-go/calculator/feemath"
	"github.com/defistate/fusionamm-go/calculator/tickarray"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// SwapQuoteByInputToken quotes a swap given the input amount. Token transfer
// fees are deducted before the swap and after it on the output side; the
// reported input is grossed back up so it matches what the wallet sends.
func SwapQuoteByInputToken(
	tokenIn uint64,
	specifiedTokenA bool,
	slippageToleranceBps uint16,
	pool *fusionamm.Pool,
	tickArrays []fusionamm.TickArray,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.ExactInSwapQuote, error) {
	feeIn, feeOut := transferFeeA, transferFeeB
	if !specifiedTokenA {
		feeIn, feeOut = transferFeeB, transferFeeA
	}

	afterFee, err := feemath.ApplyTransferFee(tokenIn, feeIn)
	if err != nil {
		return nil, err
	}
	seq, err := tickarray.NewSequence(tickArrays, pool.TickSpacing)
	if err != nil {
		return nil, err
	}
	result, err := ComputeSwap(afterFee, nil, pool, seq, specifiedTokenA, true)
	if err != nil {
		return nil, err
	}

	swappedIn, swappedOut := result.TokenA, result.TokenB
	if !specifiedTokenA {
		swappedIn, swappedOut = result.TokenB, result.TokenA
	}
	quotedIn, err := feemath.ReverseApplyTransferFee(swappedIn, feeIn)
	if err != nil {
		return nil, err
	}
	estOut, err := feemath.ApplyTransferFee(swappedOut, feeOut)
	if err != nil {
		return nil, err
	}
	minOut, err := feemath.MinAmountWithSlippage(estOut, slippageToleranceBps)
	if err != nil {
		return nil, err
	}
	return &fusionamm.ExactInSwapQuote{
		TokenIn:       quotedIn,
		TokenEstOut:   estOut,
		TokenMinOut:   minOut,
		TradeFee:      result.TotalFee,
		NextSqrtPrice: result.NextSqrtPrice,
	}, nil
}

// SwapQuoteByOutputToken quotes a swap given the desired output amount. The
// output transfer fee is grossed up before the swap so the net delivery
// matches the request.
func SwapQuoteByOutputToken(
	tokenOut uint64,
	specifiedTokenA bool,
	slippageToleranceBps uint16,
	pool *fusionamm.Pool,
	tickArrays []fusionamm.TickArray,
	transferFeeA, transferFeeB *fusionamm.TransferFee,
) (*fusionamm.ExactOutSwapQuote, error) {
	feeIn, feeOut := transferFeeB, transferFeeA
	if !specifiedTokenA {
		feeIn, feeOut = transferFeeA, transferFeeB
	}

	beforeFee, err := feemath.ReverseApplyTransferFee(tokenOut, feeOut)
	if err != nil {
		return nil, err
	}
	seq, err := tickarray.NewSequence(tickArrays, pool.TickSpacing)
	if err != nil {
		return nil, err
	}
	result, err := ComputeSwap(beforeFee, nil, pool, seq, !specifiedTokenA, false)
	if err != nil {
		return nil, err
	}

	swappedOut, swappedIn := result.TokenA, result.TokenB
	if !specifiedTokenA {
		swappedOut, swappedIn = result.TokenB, result.TokenA
	}
	quotedOut, err := feemath.ApplyTransferFee(swappedOut, feeOut)
	if err != nil {
		return nil, err
	}
	estIn, err := feemath.ReverseApplyTransferFee(swappedIn, feeIn)
	if err != nil {
		return nil, err
	}
	maxIn, err := feemath.MaxAmountWithSlippage(estIn, slippageToleranceBps)
	if err != nil {
		return nil, err
	}
	return &fusionamm.ExactOutSwapQuote{
		TokenOut:      quotedOut,
		TokenEstIn:    estIn,
		TokenMaxIn:    maxIn,
		TradeFee:      result.TotalFee,
		NextSqrtPrice: result.NextSqrtPrice,
	}, nil
}
