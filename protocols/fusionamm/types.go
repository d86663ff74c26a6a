package fusionamm

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Pool is the decoded state of a concentrated-liquidity pool with resting
// limit orders. Q64.64 sqrt prices and u128 quantities are held as
// *uint256.Int; LiquidityNet on ticks is a signed 128-bit value held as
// *big.Int.
type Pool struct {
	TickSpacing          uint16       `json:"tick_spacing"`
	FeeRate              uint16       `json:"fee_rate"`
	ProtocolFeeRate      uint16       `json:"protocol_fee_rate"`
	OrderProtocolFeeRate uint16       `json:"order_protocol_fee_rate"`
	ClpRewardRate        uint16       `json:"clp_reward_rate"`
	Liquidity            *uint256.Int `json:"liquidity"`
	SqrtPrice            *uint256.Int `json:"sqrt_price"`
	TickCurrentIndex     int32        `json:"tick_current_index"`
	FeeGrowthGlobalA     *uint256.Int `json:"fee_growth_global_a"`
	FeeGrowthGlobalB     *uint256.Int `json:"fee_growth_global_b"`
	OrdersTotalAmountA   uint64       `json:"orders_total_amount_a"`
	OrdersTotalAmountB   uint64       `json:"orders_total_amount_b"`
	OrdersFilledAmountA  uint64       `json:"orders_filled_amount_a"`
	OrdersFilledAmountB  uint64       `json:"orders_filled_amount_b"`
	OlpFeeOwedA          uint64       `json:"olp_fee_owed_a"`
	OlpFeeOwedB          uint64       `json:"olp_fee_owed_b"`
}

// Tick is one initialized (or zeroed) tick slot.
type Tick struct {
	Initialized                    bool         `json:"initialized"`
	LiquidityNet                   *big.Int     `json:"liquidity_net"`
	LiquidityGross                 *uint256.Int `json:"liquidity_gross"`
	FeeGrowthOutsideA              *uint256.Int `json:"fee_growth_outside_a"`
	FeeGrowthOutsideB              *uint256.Int `json:"fee_growth_outside_b"`
	Age                            uint64       `json:"age"`
	OpenOrdersInput                uint64       `json:"open_orders_input"`
	PartFilledOrdersInput          uint64       `json:"part_filled_orders_input"`
	PartFilledOrdersRemainingInput uint64       `json:"part_filled_orders_remaining_input"`
	FulfilledAToBOrdersInput       uint64       `json:"fulfilled_a_to_b_orders_input"`
	FulfilledBToAOrdersInput       uint64       `json:"fulfilled_b_to_a_orders_input"`
}

// TickArray covers TickArraySize consecutive initializable ticks starting at
// StartTickIndex.
type TickArray struct {
	StartTickIndex int32               `json:"start_tick_index"`
	Ticks          [TickArraySize]Tick `json:"ticks"`
}

// LimitOrder is the decoded state of one resting limit order.
type LimitOrder struct {
	TickIndex int32  `json:"tick_index"`
	Amount    uint64 `json:"amount"`
	AToB      bool   `json:"a_to_b"`
	Age       uint64 `json:"age"`
}

// TransferFee models a token-2022 transfer fee extension: a basis-point rate
// capped at MaxFee. A nil *TransferFee means the token carries no fee.
type TransferFee struct {
	BasisPoints uint16 `json:"basis_points"`
	MaxFee      uint64 `json:"max_fee"`
}

// NewTransferFee returns an uncapped transfer fee of bps basis points.
func NewTransferFee(bps uint16) *TransferFee {
	return &TransferFee{BasisPoints: bps, MaxFee: ^uint64(0)}
}

// TickRange is an ordered pair of tick indexes.
type TickRange struct {
	TickLowerIndex int32
	TickUpperIndex int32
}
