// Package tickarray walks initialized ticks across a contiguous run of tick
// arrays. The arrays are indexed once into a bitset so that long stretches
// of uninitialized ticks are skipped a word at a time.
package tickarray

import (
	"sort"

	"github.com/defistate/fusionamm-go/bitset"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

// Sequence is a validated, sorted run of tick arrays for one pool.
type Sequence struct {
	arrays      []fusionamm.TickArray
	initialized bitset.BitSet
	tickSpacing uint16
	start       int32
	end         int32
}

// NewSequence sorts the arrays by start index and validates that they form
// one contiguous run at the given tick spacing.
func NewSequence(arrays []fusionamm.TickArray, tickSpacing uint16) (*Sequence, error) {
	if len(arrays) == 0 {
		return nil, fusionamm.ErrTickSequenceEmpty
	}

	sorted := make([]fusionamm.TickArray, len(arrays))
	copy(sorted, arrays)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTickIndex < sorted[j].StartTickIndex
	})

	span := int32(tickSpacing) * fusionamm.TickArraySize
	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartTickIndex != sorted[0].StartTickIndex+int32(i)*span {
			return nil, fusionamm.ErrTickArrayNotEvenlySpaced
		}
	}

	s := &Sequence{
		arrays:      sorted,
		initialized: bitset.NewBitSet(uint64(len(sorted)) * fusionamm.TickArraySize),
		tickSpacing: tickSpacing,
		start:       sorted[0].StartTickIndex,
		end:         sorted[len(sorted)-1].StartTickIndex + span,
	}
	for i := range sorted {
		for j := range sorted[i].Ticks {
			if sorted[i].Ticks[j].Initialized {
				s.initialized.Set(uint64(i)*fusionamm.TickArraySize + uint64(j))
			}
		}
	}
	return s, nil
}

// StartIndex is the first tick index covered by the sequence.
func (s *Sequence) StartIndex() int32 { return s.start }

// EndIndex is one past the last tick index covered by the sequence.
func (s *Sequence) EndIndex() int32 { return s.end }

// Tick returns the tick slot at tickIndex.
func (s *Sequence) Tick(tickIndex int32) (*fusionamm.Tick, error) {
	if tickIndex < s.start || tickIndex >= s.end {
		return nil, fusionamm.ErrTickIndexOutOfBounds
	}
	if mod(tickIndex, s.tickSpacing) != 0 {
		return nil, fusionamm.ErrTickIndexNotInArray
	}
	offset := tickIndex - s.start
	span := int32(s.tickSpacing) * fusionamm.TickArraySize
	return &s.arrays[offset/span].Ticks[(offset%span)/int32(s.tickSpacing)], nil
}

// NextInitializedTick returns the first initialized tick strictly above
// tickIndex (snapped down to the spacing grid), together with its index.
// When the covered range above tickIndex holds no initialized tick, the tick
// is nil and the index is the last covered candidate. A starting point whose
// first candidate already lies past the covered range is an error.
func (s *Sequence) NextInitializedTick(tickIndex int32) (*fusionamm.Tick, int32, error) {
	spacing := int32(s.tickSpacing)
	cur := tickIndex - mod(tickIndex, s.tickSpacing) + spacing
	if cur >= s.end || cur > fusionamm.MaxTickIndex {
		return nil, 0, fusionamm.ErrInvalidTickArraySequence
	}
	if cur < s.start {
		return nil, 0, fusionamm.ErrTickIndexOutOfBounds
	}
	if (cur-s.start)%spacing != 0 {
		return nil, 0, fusionamm.ErrTickIndexNotInArray
	}

	last := s.end - spacing
	if last > fusionamm.MaxTickIndex {
		last = fusionamm.MaxTickIndex - mod(fusionamm.MaxTickIndex-s.start, s.tickSpacing)
	}
	slot, ok := s.initialized.NextSet(uint64((cur - s.start) / spacing))
	if !ok || slot > uint64((last-s.start)/spacing) {
		return nil, last, nil
	}
	found := s.start + int32(slot)*spacing
	tick, err := s.Tick(found)
	if err != nil {
		return nil, 0, err
	}
	return tick, found, nil
}

// PrevInitializedTick returns the first initialized tick at or below
// tickIndex (snapped down to the spacing grid), together with its index.
// The exhaustion and error behavior mirrors NextInitializedTick.
func (s *Sequence) PrevInitializedTick(tickIndex int32) (*fusionamm.Tick, int32, error) {
	spacing := int32(s.tickSpacing)
	cur := tickIndex - mod(tickIndex, s.tickSpacing)
	if cur < s.start || cur < fusionamm.MinTickIndex {
		return nil, 0, fusionamm.ErrInvalidTickArraySequence
	}
	if cur >= s.end {
		return nil, 0, fusionamm.ErrTickIndexOutOfBounds
	}
	if (cur-s.start)%spacing != 0 {
		return nil, 0, fusionamm.ErrTickIndexNotInArray
	}

	first := s.start
	if first < fusionamm.MinTickIndex {
		first = fusionamm.MinTickIndex + mod(-fusionamm.MinTickIndex+s.start, s.tickSpacing)
	}
	slot, ok := s.initialized.PrevSet(uint64((cur - s.start) / spacing))
	if !ok || int32(slot) < (first-s.start)/spacing {
		return nil, first, nil
	}
	found := s.start + int32(slot)*spacing
	tick, err := s.Tick(found)
	if err != nil {
		return nil, 0, err
	}
	return tick, found, nil
}

// mod is the Euclidean remainder: always in [0, spacing).
func mod(tick int32, spacing uint16) int32 {
	r := tick % int32(spacing)
	if r < 0 {
		r += int32(spacing)
	}
	return r
}
