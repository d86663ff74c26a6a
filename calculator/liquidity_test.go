package calculator

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

func TestIncreaseLiquidityQuote(t *testing.T) {
	quote, err := IncreaseLiquidityQuote(uint256.NewInt(1_000_000), 1000, oneX64, -100, 100, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "1000000", quote.LiquidityDelta.Dec())
	assert.Equal(t, uint64(4988), quote.TokenEstA)
	assert.Equal(t, uint64(4988), quote.TokenEstB)
	assert.Equal(t, uint64(5487), quote.TokenMaxA)
	assert.Equal(t, uint64(5487), quote.TokenMaxB)
}

func TestIncreaseLiquidityQuoteByTokenA(t *testing.T) {
	// Range above the current price: all value sits in token A.
	quote, err := IncreaseLiquidityQuoteByTokenA(1_000_000, 0, oneX64, 150, 300, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "134848152", quote.LiquidityDelta.Dec())
	assert.Equal(t, uint64(1_000_000), quote.TokenEstA)
	assert.Equal(t, uint64(0), quote.TokenEstB)

	// Range below the current price: token A buys nothing.
	quote, err = IncreaseLiquidityQuoteByTokenA(1_000_000, 0, oneX64, -300, -150, nil, nil)
	require.NoError(t, err)
	assert.True(t, quote.LiquidityDelta.IsZero())
	assert.Equal(t, uint64(0), quote.TokenEstA)
	assert.Equal(t, uint64(0), quote.TokenEstB)
}

func TestIncreaseLiquidityQuoteByTokenB(t *testing.T) {
	quote, err := IncreaseLiquidityQuoteByTokenB(1_000_000, 0, oneX64, -300, -150, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "134848152", quote.LiquidityDelta.Dec())
	assert.Equal(t, uint64(0), quote.TokenEstA)
	assert.Equal(t, uint64(1_000_000), quote.TokenEstB)
}

func TestDecreaseLiquidityQuote(t *testing.T) {
	quote, err := DecreaseLiquidityQuote(uint256.NewInt(1_000_000), 1000, oneX64, -100, 100, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(4987), quote.TokenEstA)
	assert.Equal(t, uint64(4987), quote.TokenEstB)
	assert.Equal(t, uint64(4488), quote.TokenMinA)
	assert.Equal(t, uint64(4488), quote.TokenMinB)
}

func TestDecreaseLiquidityQuoteWithTransferFees(t *testing.T) {
	feeA := fusionamm.NewTransferFee(100)
	feeB := fusionamm.NewTransferFee(200)
	quote, err := DecreaseLiquidityQuote(uint256.NewInt(1_000_000), 0, oneX64, -100, 100, feeA, feeB)
	require.NoError(t, err)
	assert.Equal(t, uint64(4937), quote.TokenEstA)
	assert.Equal(t, uint64(4887), quote.TokenEstB)
}

func TestLiquidityQuoteZeroDelta(t *testing.T) {
	inc, err := IncreaseLiquidityQuote(new(uint256.Int), 0, oneX64, -100, 100, nil, nil)
	require.NoError(t, err)
	assert.True(t, inc.LiquidityDelta.IsZero())
	assert.Equal(t, uint64(0), inc.TokenEstA)
	assert.Equal(t, uint64(0), inc.TokenEstB)

	dec, err := DecreaseLiquidityQuote(nil, 0, oneX64, -100, 100, nil, nil)
	require.NoError(t, err)
	assert.True(t, dec.LiquidityDelta.IsZero())
}
