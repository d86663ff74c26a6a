package feemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

func TestSwapFee(t *testing.T) {
	got, err := ApplySwapFee(12345, 3000)
	require.NoError(t, err)
	assert.Equal(t, uint64(12307), got)

	got, err = ReverseApplySwapFee(12345, 3000)
	require.NoError(t, err)
	assert.Equal(t, uint64(12383), got)

	// Zero fee rate is the identity both ways.
	got, err = ApplySwapFee(12345, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), got)
	got, err = ReverseApplySwapFee(12345, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), got)
}

func TestApplyTransferFee(t *testing.T) {
	capped := &fusionamm.TransferFee{BasisPoints: 500, MaxFee: 100}
	got, err := ApplyTransferFee(10000, capped)
	require.NoError(t, err)
	assert.Equal(t, uint64(9900), got)

	uncapped := fusionamm.NewTransferFee(500)
	got, err = ApplyTransferFee(10000, uncapped)
	require.NoError(t, err)
	assert.Equal(t, uint64(9500), got)

	got, err = ApplyTransferFee(10000, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), got)
}

func TestReverseApplyTransferFee(t *testing.T) {
	uncapped := fusionamm.NewTransferFee(500)
	got, err := ReverseApplyTransferFee(9500, uncapped)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), got)

	capped := &fusionamm.TransferFee{BasisPoints: 500, MaxFee: 100}
	got, err = ReverseApplyTransferFee(9900, capped)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), got)

	got, err = ReverseApplyTransferFee(0, uncapped)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	// A full-rate fee adds exactly the cap.
	full := &fusionamm.TransferFee{BasisPoints: 10000, MaxFee: 77}
	got, err = ReverseApplyTransferFee(1000, full)
	require.NoError(t, err)
	assert.Equal(t, uint64(1077), got)

	_, err = ReverseApplyTransferFee(2, &fusionamm.TransferFee{BasisPoints: 10000, MaxFee: math.MaxUint64})
	assert.ErrorIs(t, err, fusionamm.ErrAmountExceedsMaxU64)
}

func TestTransferFeeValidation(t *testing.T) {
	bad := &fusionamm.TransferFee{BasisPoints: 10001, MaxFee: 100}
	_, err := ApplyTransferFee(10000, bad)
	assert.ErrorIs(t, err, fusionamm.ErrInvalidTransferFee)
	_, err = ReverseApplyTransferFee(10000, bad)
	assert.ErrorIs(t, err, fusionamm.ErrInvalidTransferFee)
}

func TestSlippage(t *testing.T) {
	got, err := MinAmountWithSlippage(996, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(896), got)

	got, err = MaxAmountWithSlippage(996, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1096), got)

	_, err = MinAmountWithSlippage(996, 10001)
	assert.ErrorIs(t, err, fusionamm.ErrInvalidSlippageTolerance)
	_, err = MaxAmountWithSlippage(996, 10001)
	assert.ErrorIs(t, err, fusionamm.ErrInvalidSlippageTolerance)
}
