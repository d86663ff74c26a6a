package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

func orderPool(feeRate, clpRewardRate, orderProtocolFeeRate uint16) *fusionamm.Pool {
	return &fusionamm.Pool{
		TickSpacing:          2,
		FeeRate:              feeRate,
		ClpRewardRate:        clpRewardRate,
		OrderProtocolFeeRate: orderProtocolFeeRate,
		SqrtPrice:            oneX64.Clone(),
	}
}

func TestLimitOrderQuoteByInputToken(t *testing.T) {
	tick, err := PriceToTickIndex(2.0, 1, 1)
	require.NoError(t, err)
	require.Equal(t, int32(6931), tick)

	cases := []struct {
		name string
		pool *fusionamm.Pool
		want uint64
	}{
		{"no fee", orderPool(0, 0, 5000), 19998},
		{"1pct fee all to clp", orderPool(10000, 0, 0), 19998},
		{"1pct fee half reward", orderPool(10000, 5000, 0), 20099},
		{"1pct fee half reward half protocol", orderPool(10000, 5000, 5000), 20049},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LimitOrderQuoteByInputToken(10000, true, tick, tc.pool)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLimitOrderQuoteByOutputToken(t *testing.T) {
	tick, err := PriceToTickIndex(2.0, 1, 1)
	require.NoError(t, err)

	cases := []struct {
		name      string
		amountOut uint64
		pool      *fusionamm.Pool
		want      uint64
	}{
		{"no fee", 19998, orderPool(0, 0, 5000), 10000},
		{"1pct fee all to clp", 20200, orderPool(10000, 0, 0), 10000},
		{"1pct fee half reward", 20099, orderPool(10000, 5000, 0), 10000},
		{"1pct fee half reward half protocol", 20049, orderPool(10000, 5000, 5000), 10000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LimitOrderQuoteByOutputToken(tc.amountOut, true, tick, tc.pool)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("output at u64 max", func(t *testing.T) {
		// With a zero fee rate the divided amount rounds back to 2^64 and no
		// longer fits a u64.
		_, err := LimitOrderQuoteByOutputToken(math.MaxUint64, true, tick, orderPool(0, 0, 5000))
		assert.ErrorIs(t, err, fusionamm.ErrAmountExceedsMaxU64)
	})
}

func TestDecreaseLimitOrderQuote(t *testing.T) {
	t.Run("untouched", func(t *testing.T) {
		pool := &fusionamm.Pool{OrderProtocolFeeRate: 5000}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 50000, AToB: true, Age: 5}
		tick := &fusionamm.Tick{Age: 5, OpenOrdersInput: 100000}
		quote, err := DecreaseLimitOrderQuote(pool, order, tick, 25000, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, &fusionamm.DecreaseLimitOrderQuote{AmountOutA: 25000}, quote)
	})

	t.Run("partially filled a to b", func(t *testing.T) {
		pool := &fusionamm.Pool{OrderProtocolFeeRate: 5000, OrdersFilledAmountA: 80000, OlpFeeOwedB: 500}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 50000, AToB: true, Age: 5}
		tick := &fusionamm.Tick{Age: 6, PartFilledOrdersInput: 200000, PartFilledOrdersRemainingInput: 120000}
		quote, err := DecreaseLimitOrderQuote(pool, order, tick, 25000, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, &fusionamm.DecreaseLimitOrderQuote{AmountOutA: 15000, AmountOutB: 10190, RewardB: 62}, quote)
	})

	t.Run("partially filled b to a", func(t *testing.T) {
		pool := &fusionamm.Pool{OrderProtocolFeeRate: 5000, OrdersFilledAmountB: 80000, OlpFeeOwedA: 500}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 50000, AToB: false, Age: 5}
		tick := &fusionamm.Tick{Age: 6, PartFilledOrdersInput: 200000, PartFilledOrdersRemainingInput: 120000}
		quote, err := DecreaseLimitOrderQuote(pool, order, tick, 25000, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, &fusionamm.DecreaseLimitOrderQuote{AmountOutA: 9934, AmountOutB: 15000, RewardA: 62}, quote)
	})

	t.Run("fulfilled a to b", func(t *testing.T) {
		pool := &fusionamm.Pool{OrderProtocolFeeRate: 5000, OrdersFilledAmountA: 100000, OlpFeeOwedB: 500}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 100000, AToB: true, Age: 5}
		tick := &fusionamm.Tick{Age: 7, FulfilledAToBOrdersInput: 100000, FulfilledBToAOrdersInput: 80000}
		quote, err := DecreaseLimitOrderQuote(pool, order, tick, 10000, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, &fusionamm.DecreaseLimitOrderQuote{AmountOutB: 10178, RewardB: 50}, quote)
	})

	t.Run("fulfilled b to a", func(t *testing.T) {
		pool := &fusionamm.Pool{OrderProtocolFeeRate: 5000, OrdersFilledAmountB: 80000, OlpFeeOwedA: 500}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 100000, AToB: false, Age: 5}
		tick := &fusionamm.Tick{Age: 7, FulfilledAToBOrdersInput: 100000, FulfilledBToAOrdersInput: 80000}
		quote, err := DecreaseLimitOrderQuote(pool, order, tick, 10000, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, &fusionamm.DecreaseLimitOrderQuote{AmountOutA: 9934, RewardA: 62}, quote)
	})

	t.Run("amount above order size", func(t *testing.T) {
		pool := &fusionamm.Pool{}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 50000, AToB: true, Age: 5}
		tick := &fusionamm.Tick{Age: 5}
		_, err := DecreaseLimitOrderQuote(pool, order, tick, 50001, nil, nil)
		assert.ErrorIs(t, err, fusionamm.ErrAmountExceedsLimitOrderInput)
	})

	t.Run("tick behind order", func(t *testing.T) {
		pool := &fusionamm.Pool{}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 50000, AToB: true, Age: 5}
		tick := &fusionamm.Tick{Age: 4}
		_, err := DecreaseLimitOrderQuote(pool, order, tick, 10000, nil, nil)
		assert.ErrorIs(t, err, fusionamm.ErrLimitOrderAndPoolAreOutOfSync)
	})

	t.Run("partial fill without input", func(t *testing.T) {
		pool := &fusionamm.Pool{}
		order := &fusionamm.LimitOrder{TickIndex: 128, Amount: 50000, AToB: true, Age: 5}
		tick := &fusionamm.Tick{Age: 6}
		_, err := DecreaseLimitOrderQuote(pool, order, tick, 10000, nil, nil)
		assert.ErrorIs(t, err, fusionamm.ErrLimitOrderAndPoolAreOutOfSync)
	})
}
