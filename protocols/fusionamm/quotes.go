package fusionamm

import "github.com/holiman/uint256"

// ExactInSwapQuote is the result of quoting a swap by its input amount.
// TokenMinOut carries the slippage-adjusted lower bound; NextSqrtPrice is the
// pool sqrt price after the quoted swap.
type ExactInSwapQuote struct {
	TokenIn       uint64       `json:"token_in"`
	TokenEstOut   uint64       `json:"token_est_out"`
	TokenMinOut   uint64       `json:"token_min_out"`
	TradeFee      uint64       `json:"trade_fee"`
	NextSqrtPrice *uint256.Int `json:"next_sqrt_price"`
}

// ExactOutSwapQuote is the result of quoting a swap by its output amount.
// TokenMaxIn carries the slippage-adjusted upper bound; NextSqrtPrice is the
// pool sqrt price after the quoted swap.
type ExactOutSwapQuote struct {
	TokenOut      uint64       `json:"token_out"`
	TokenEstIn    uint64       `json:"token_est_in"`
	TokenMaxIn    uint64       `json:"token_max_in"`
	TradeFee      uint64       `json:"trade_fee"`
	NextSqrtPrice *uint256.Int `json:"next_sqrt_price"`
}

// DecreaseLimitOrderQuote reports what closing all or part of a limit order
// returns, split per token. The OLP fee reward share is included in the
// amounts and also broken out separately.
type DecreaseLimitOrderQuote struct {
	AmountOutA uint64 `json:"amount_out_a"`
	AmountOutB uint64 `json:"amount_out_b"`
	RewardA    uint64 `json:"reward_a"`
	RewardB    uint64 `json:"reward_b"`
}

// IncreaseLiquidityQuote reports the token amounts required to add a
// liquidity delta, with slippage-adjusted maximums.
type IncreaseLiquidityQuote struct {
	LiquidityDelta *uint256.Int `json:"liquidity_delta"`
	TokenEstA      uint64       `json:"token_est_a"`
	TokenEstB      uint64       `json:"token_est_b"`
	TokenMaxA      uint64       `json:"token_max_a"`
	TokenMaxB      uint64       `json:"token_max_b"`
}

// DecreaseLiquidityQuote reports the token amounts returned by removing a
// liquidity delta, with slippage-adjusted minimums.
type DecreaseLiquidityQuote struct {
	LiquidityDelta *uint256.Int `json:"liquidity_delta"`
	TokenEstA      uint64       `json:"token_est_a"`
	TokenEstB      uint64       `json:"token_est_b"`
	TokenMinA      uint64       `json:"token_min_a"`
	TokenMinB      uint64       `json:"token_min_b"`
}

// PositionStatus locates a tick range relative to the pool price.
type PositionStatus uint8

const (
	PositionInvalid PositionStatus = iota
	PositionBelowRange
	PositionInRange
	PositionAboveRange
)

func (s PositionStatus) String() string {
	switch s {
	case PositionBelowRange:
		return "below range"
	case PositionInRange:
		return "in range"
	case PositionAboveRange:
		return "above range"
	default:
		return "invalid"
	}
}

// PositionRatio is the deposit ratio of a position in Q64.64 fixed point.
// RatioA + RatioB == 2^64.
type PositionRatio struct {
	RatioA *uint256.Int `json:"ratio_a"`
	RatioB *uint256.Int `json:"ratio_b"`
}

// OrderBookEntry is one display-side price bucket. Amounts are denominated in
// the side's base token, quotes in the opposite token. This is a float-derived
// view and never feeds settlement math.
type OrderBookEntry struct {
	ConcentratedAmount      uint64  `json:"concentrated_amount"`
	ConcentratedAmountQuote uint64  `json:"concentrated_amount_quote"`
	ConcentratedTotal       uint64  `json:"concentrated_total"`
	ConcentratedTotalQuote  uint64  `json:"concentrated_total_quote"`
	LimitAmount             uint64  `json:"limit_amount"`
	LimitAmountQuote        uint64  `json:"limit_amount_quote"`
	LimitTotal              uint64  `json:"limit_total"`
	LimitTotalQuote         uint64  `json:"limit_total_quote"`
	Price                   float64 `json:"price"`
	AskSide                 bool    `json:"ask_side"`
}
