package tickarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// twoArrays covers ticks [-176, 176) at spacing 2 with initialized ticks at
// -100 and 88.
func twoArrays() []fusionamm.TickArray {
	lower := fusionamm.TickArray{StartTickIndex: -176}
	lower.Ticks[(-100+176)/2].Initialized = true
	upper := fusionamm.TickArray{StartTickIndex: 0}
	upper.Ticks[88/2].Initialized = true
	return []fusionamm.TickArray{upper, lower}
}

func TestNewSequenceValidation(t *testing.T) {
	_, err := NewSequence(nil, 2)
	assert.ErrorIs(t, err, fusionamm.ErrTickSequenceEmpty)

	gapped := []fusionamm.TickArray{{StartTickIndex: 0}, {StartTickIndex: 352}}
	_, err = NewSequence(gapped, 2)
	assert.ErrorIs(t, err, fusionamm.ErrTickArrayNotEvenlySpaced)

	seq, err := NewSequence(twoArrays(), 2)
	require.NoError(t, err)
	assert.Equal(t, int32(-176), seq.StartIndex())
	assert.Equal(t, int32(176), seq.EndIndex())
}

func TestSequenceTick(t *testing.T) {
	seq, err := NewSequence(twoArrays(), 2)
	require.NoError(t, err)

	tick, err := seq.Tick(88)
	require.NoError(t, err)
	assert.True(t, tick.Initialized)

	tick, err = seq.Tick(90)
	require.NoError(t, err)
	assert.False(t, tick.Initialized)

	_, err = seq.Tick(-178)
	assert.ErrorIs(t, err, fusionamm.ErrTickIndexOutOfBounds)
	_, err = seq.Tick(176)
	assert.ErrorIs(t, err, fusionamm.ErrTickIndexOutOfBounds)
	_, err = seq.Tick(3)
	assert.ErrorIs(t, err, fusionamm.ErrTickIndexNotInArray)
}

func TestNextInitializedTick(t *testing.T) {
	seq, err := NewSequence(twoArrays(), 2)
	require.NoError(t, err)

	tick, index, err := seq.NextInitializedTick(0)
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, int32(88), index)

	// The starting index itself is excluded.
	tick, index, err = seq.NextInitializedTick(87)
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, int32(88), index)

	// Nothing initialized above 88: the scan reports the last covered
	// candidate.
	tick, index, err = seq.NextInitializedTick(88)
	require.NoError(t, err)
	assert.Nil(t, tick)
	assert.Equal(t, int32(174), index)

	_, _, err = seq.NextInitializedTick(174)
	assert.ErrorIs(t, err, fusionamm.ErrInvalidTickArraySequence)

	_, _, err = seq.NextInitializedTick(-400)
	assert.ErrorIs(t, err, fusionamm.ErrTickIndexOutOfBounds)
}

func TestPrevInitializedTick(t *testing.T) {
	seq, err := NewSequence(twoArrays(), 2)
	require.NoError(t, err)

	tick, index, err := seq.PrevInitializedTick(0)
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, int32(-100), index)

	// The starting index itself is included.
	tick, index, err = seq.PrevInitializedTick(-100)
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, int32(-100), index)

	tick, index, err = seq.PrevInitializedTick(-102)
	require.NoError(t, err)
	assert.Nil(t, tick)
	assert.Equal(t, int32(-176), index)

	_, _, err = seq.PrevInitializedTick(-177)
	assert.ErrorIs(t, err, fusionamm.ErrInvalidTickArraySequence)

	_, _, err = seq.PrevInitializedTick(300)
	assert.ErrorIs(t, err, fusionamm.ErrTickIndexOutOfBounds)
}
