// Package feemath applies swap fees, token transfer fees and slippage
// tolerances. All rates are integer basis schemes; rounding always favors
// the pool (fees round up, payouts round down).
package feemath

import (
	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/u256math"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

var (
	feeRateDen = uint256.NewInt(fusionamm.FeeRateDenominator)
	bpsDen     = uint256.NewInt(fusionamm.BasisPointDenominator)
)

// ApplySwapFee deducts the pool swap fee from amount, rounding the payout
// down.
func ApplySwapFee(amount uint64, feeRate uint16) (uint64, error) {
	num := uint256.NewInt(fusionamm.FeeRateDenominator - uint64(feeRate))
	return u256math.MulDivU64(amount, num, feeRateDen, false)
}

// ReverseApplySwapFee returns the pre-fee amount that nets to amount after
// the swap fee, rounding up.
func ReverseApplySwapFee(amount uint64, feeRate uint16) (uint64, error) {
	den := uint256.NewInt(fusionamm.FeeRateDenominator - uint64(feeRate))
	return u256math.MulDivU64(amount, feeRateDen, den, true)
}

// ApplyTransferFee deducts the token transfer fee from amount. A nil fee
// passes amount through unchanged.
func ApplyTransferFee(amount uint64, fee *fusionamm.TransferFee) (uint64, error) {
	if fee == nil || fee.BasisPoints == 0 || amount == 0 {
		return amount, nil
	}
	if fee.BasisPoints > fusionamm.BasisPointDenominator {
		return 0, fusionamm.ErrInvalidTransferFee
	}
	feeAmount, err := u256math.MulDivU64(amount, uint256.NewInt(uint64(fee.BasisPoints)), bpsDen, true)
	if err != nil {
		return 0, err
	}
	if feeAmount > fee.MaxFee {
		feeAmount = fee.MaxFee
	}
	if feeAmount > amount {
		return 0, nil
	}
	return amount - feeAmount, nil
}

// ReverseApplyTransferFee returns the gross amount that nets to amount after
// the token transfer fee.
func ReverseApplyTransferFee(amount uint64, fee *fusionamm.TransferFee) (uint64, error) {
	if fee == nil || fee.BasisPoints == 0 {
		return amount, nil
	}
	if fee.BasisPoints > fusionamm.BasisPointDenominator {
		return 0, fusionamm.ErrInvalidTransferFee
	}
	if amount == 0 {
		return 0, nil
	}
	if fee.BasisPoints == fusionamm.BasisPointDenominator {
		return addU64(amount, fee.MaxFee)
	}
	den := uint256.NewInt(fusionamm.BasisPointDenominator - uint64(fee.BasisPoints))
	raw, err := u256math.MulDivU64(amount, bpsDen, den, true)
	if err != nil {
		return 0, err
	}
	if raw-amount >= fee.MaxFee {
		return addU64(amount, fee.MaxFee)
	}
	return raw, nil
}

// MinAmountWithSlippage lowers amount by the slippage tolerance, rounding
// down.
func MinAmountWithSlippage(amount uint64, toleranceBps uint16) (uint64, error) {
	if toleranceBps > fusionamm.BasisPointDenominator {
		return 0, fusionamm.ErrInvalidSlippageTolerance
	}
	num := uint256.NewInt(fusionamm.BasisPointDenominator - uint64(toleranceBps))
	return u256math.MulDivU64(amount, num, bpsDen, false)
}

// MaxAmountWithSlippage raises amount by the slippage tolerance, rounding up.
func MaxAmountWithSlippage(amount uint64, toleranceBps uint16) (uint64, error) {
	if toleranceBps > fusionamm.BasisPointDenominator {
		return 0, fusionamm.ErrInvalidSlippageTolerance
	}
	num := uint256.NewInt(fusionamm.BasisPointDenominator + uint64(toleranceBps))
	return u256math.MulDivU64(amount, num, bpsDen, true)
}

func addU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fusionamm.ErrAmountExceedsMaxU64
	}
	return sum, nil
}
