package u256math

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

func TestMulDiv(t *testing.T) {
	cases := []struct {
		name    string
		amount  uint64
		mul     *uint256.Int
		div     *uint256.Int
		roundUp bool
		want    *uint256.Int
	}{
		{"floor with remainder", 10, uint256.NewInt(7), uint256.NewInt(4), false, uint256.NewInt(17)},
		{"ceil with remainder", 10, uint256.NewInt(7), uint256.NewInt(4), true, uint256.NewInt(18)},
		{"exact division does not round", 10, uint256.NewInt(2), uint256.NewInt(4), true, uint256.NewInt(5)},
		{"zero amount", 0, uint256.NewInt(7), uint256.NewInt(4), true, new(uint256.Int)},
		{
			"product above u64",
			math.MaxUint64,
			uint256.MustFromDecimal("18446744073709551616"),
			uint256.NewInt(1),
			false,
			uint256.MustFromDecimal("340282366920938463444927863358058659840"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dest uint256.Int
			require.NoError(t, MulDiv(&dest, tc.amount, tc.mul, tc.div, tc.roundUp))
			assert.Equal(t, tc.want, &dest)
		})
	}

	t.Run("zero divisor", func(t *testing.T) {
		var dest uint256.Int
		err := MulDiv(&dest, 1, uint256.NewInt(1), new(uint256.Int), false)
		assert.ErrorIs(t, err, fusionamm.ErrArithmeticOverflow)
	})

	t.Run("product overflows 256 bits", func(t *testing.T) {
		var dest uint256.Int
		mul := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
		err := MulDiv(&dest, 2, mul, uint256.NewInt(1), false)
		assert.ErrorIs(t, err, fusionamm.ErrArithmeticOverflow)
	})
}

func TestMulDivU64(t *testing.T) {
	got, err := MulDivU64(10, uint256.NewInt(7), uint256.NewInt(4), true)
	require.NoError(t, err)
	assert.Equal(t, uint64(18), got)

	t.Run("result above u64", func(t *testing.T) {
		mul := uint256.MustFromDecimal("18446744073709551616")
		_, err := MulDivU64(2, mul, uint256.NewInt(2), false)
		assert.ErrorIs(t, err, fusionamm.ErrAmountExceedsMaxU64)
	})

	t.Run("round up to exactly max u64", func(t *testing.T) {
		mul := uint256.MustFromDecimal("36893488147419103229")
		got, err := MulDivU64(1, mul, uint256.NewInt(2), true)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), got)
	})
}

func TestDivRound(t *testing.T) {
	cases := []struct {
		name    string
		num     *uint256.Int
		div     *uint256.Int
		roundUp bool
		want    *uint256.Int
	}{
		{"floor", uint256.NewInt(7), uint256.NewInt(2), false, uint256.NewInt(3)},
		{"ceil", uint256.NewInt(7), uint256.NewInt(2), true, uint256.NewInt(4)},
		{"exact", uint256.NewInt(8), uint256.NewInt(2), true, uint256.NewInt(4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dest uint256.Int
			require.NoError(t, DivRound(&dest, tc.num, tc.div, tc.roundUp))
			assert.Equal(t, tc.want, &dest)
		})
	}

	t.Run("zero divisor", func(t *testing.T) {
		var dest uint256.Int
		err := DivRound(&dest, uint256.NewInt(1), new(uint256.Int), false)
		assert.ErrorIs(t, err, fusionamm.ErrArithmeticOverflow)
	})
}

func TestToU64(t *testing.T) {
	got, err := ToU64(uint256.NewInt(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)

	_, err = ToU64(uint256.MustFromDecimal("18446744073709551616"))
	assert.ErrorIs(t, err, fusionamm.ErrAmountExceedsMaxU64)
}

func TestCheckU128(t *testing.T) {
	max128 := uint256.MustFromDecimal("340282366920938463463374607431768211455")
	assert.NoError(t, CheckU128(max128))

	over := new(uint256.Int).Add(max128, uint256.NewInt(1))
	assert.ErrorIs(t, CheckU128(over), fusionamm.ErrArithmeticOverflow)
}
