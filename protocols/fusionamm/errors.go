package fusionamm

import "errors"

// Closed error set for the quoting core. Callers are expected to branch with
// errors.Is; every failure path in the calculator packages resolves to one of
// these sentinels.
var (
	ErrTickArrayNotEvenlySpaced       = errors.New("tick arrays are not evenly spaced")
	ErrTickIndexOutOfBounds           = errors.New("tick index out of bounds")
	ErrInvalidTickIndex               = errors.New("invalid tick index")
	ErrArithmeticOverflow             = errors.New("arithmetic overflow")
	ErrAmountExceedsMaxU64            = errors.New("amount exceeds max u64")
	ErrAmountExceedsLimitOrderInput   = errors.New("amount exceeds limit order input amount")
	ErrSqrtPriceOutOfBounds           = errors.New("sqrt price out of bounds")
	ErrTickSequenceEmpty              = errors.New("tick sequence is empty")
	ErrSqrtPriceLimitOutOfBounds      = errors.New("sqrt price limit out of bounds")
	ErrInvalidSqrtPriceLimitDirection = errors.New("invalid sqrt price limit direction")
	ErrZeroTradableAmount             = errors.New("zero tradable amount")
	ErrInvalidTimestamp               = errors.New("invalid timestamp")
	ErrInvalidTransferFee             = errors.New("invalid transfer fee")
	ErrInvalidSlippageTolerance       = errors.New("invalid slippage tolerance")
	ErrTickIndexNotInArray            = errors.New("tick index not in array")
	ErrInvalidTickArraySequence       = errors.New("invalid tick array sequence")
	ErrLimitOrderAndPoolAreOutOfSync  = errors.New("limit order and pool are out of sync")
)
