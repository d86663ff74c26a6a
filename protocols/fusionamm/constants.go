package fusionamm

import "github.com/holiman/uint256"

const (
	// FeeRateDenominator scales Pool.FeeRate: a rate of 10_000 is 1%.
	FeeRateDenominator = 1_000_000
	// ProtocolFeeRateDenominator scales the protocol fee rates and the
	// CLP reward rate: a rate of 100 is 1%.
	ProtocolFeeRateDenominator = 10_000

	MaxClpRewardRate        = 10_000
	MaxProtocolFeeRate      = 2_500
	MaxOrderProtocolFeeRate = 10_000

	MinTickIndex = -443636
	MaxTickIndex = 443636

	// TickArraySize is the number of tick slots held by one TickArray.
	TickArraySize = 88

	// FullRangeOnlyTickSpacingThreshold marks tick spacings at which pools
	// only admit full-range positions.
	FullRangeOnlyTickSpacingThreshold = 32768

	// BasisPointDenominator scales slippage tolerances and transfer fees.
	BasisPointDenominator = 10_000
)

var (
	// MinSqrtPrice is the Q64.64 sqrt price at MinTickIndex.
	MinSqrtPrice = uint256.NewInt(4295048016)
	// MaxSqrtPrice is the Q64.64 sqrt price at MaxTickIndex.
	MaxSqrtPrice = uint256.MustFromDecimal("79226673515401279992447579055")
)
