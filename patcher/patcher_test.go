package patcher

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defistate/fusionamm-go/differ"
	"github.com/defistate/fusionamm-go/engine"
)

// --------------------------------------------------------------------------------
// --- Mocks ---
// --------------------------------------------------------------------------------

// mockIntPatcher is a simple generic patcher for testing.
// It treats the State as an Integer and the Diff as an addition.
// This proves the engine can carry values and update them without knowing what they are.
func mockIntPatcher(old any, diff any) (any, error) {
	val := 0
	if old != nil {
		val = old.(int)
	}
	delta, ok := diff.(int)
	if !ok {
		return nil, errors.New("diff is not int")
	}
	return val + delta, nil
}

// --------------------------------------------------------------------------------
// --- Helpers ---
// --------------------------------------------------------------------------------

func makeState(slot uint64, protocols map[engine.ProtocolID]engine.ProtocolState) *engine.State {
	return &engine.State{
		Slot: engine.SlotSummary{
			Slot:       slot,
			ParentSlot: slot - 1,
			Blockhash:  fmt.Sprintf("hash-%d", slot),
		},
		Timestamp: uint64(time.Now().UnixNano()),
		Protocols: protocols,
	}
}

// --------------------------------------------------------------------------------
// --- Main Test Suite ---
// --------------------------------------------------------------------------------

func TestStatePatcher_HappyPath(t *testing.T) {
	// 1. Setup Config
	// We register our generic integer patcher against a test schema.
	schema := engine.ProtocolSchema("mock/int@v1")
	cfg := &StatePatcherConfig{
		Patchers: map[engine.ProtocolSchema]PatcherFunc{
			schema: mockIntPatcher,
		},
	}
	patcher, err := NewStatePatcher(cfg)
	require.NoError(t, err)

	// 2. Setup Data
	// "fusionamm_sol_usdc" -> Value 10
	// "fusionamm_sol_usdt" -> Value 50
	p1 := engine.ProtocolID("fusionamm_sol_usdc")
	p2 := engine.ProtocolID("fusionamm_sol_usdt")

	oldState := makeState(100, map[engine.ProtocolID]engine.ProtocolState{
		p1: {Schema: schema, Data: 10},
		p2: {Schema: schema, Data: 50},
	})

	// 3. Create Diff
	// "fusionamm_sol_usdc" -> Add 5  (Update)
	// "fusionamm_sol_usdt" -> Missing (No Change)
	// "fusionamm_jup_usdc" -> Add 100 (New Protocol)
	p3 := engine.ProtocolID("fusionamm_jup_usdc")

	diff := &differ.StateDiff{
		FromSlot: 100,
		ToSlot: engine.SlotSummary{
			Slot: 101,
		},
		Protocols: map[engine.ProtocolID]differ.ProtocolDiff{
			p1: {Schema: schema, Data: 5},
			p3: {Schema: schema, Data: 100},
		},
	}

	// 4. Execute Patch
	newState, err := patcher.Patch(oldState, diff)
	require.NoError(t, err)

	// 5. Verify Results
	assert.Equal(t, uint64(101), newState.Slot.Slot)

	// Verify P1 (Update: 10 + 5 = 15)
	res1, ok := newState.Protocols[p1]
	require.True(t, ok)
	assert.Equal(t, 15, res1.Data.(int))

	// Verify P2 (Deep Copy / Persistence: 50)
	res2, ok := newState.Protocols[p2]
	require.True(t, ok)
	assert.Equal(t, 50, res2.Data.(int))

	// Verify P3 (New Creation: 0 + 100 = 100)
	res3, ok := newState.Protocols[p3]
	require.True(t, ok)
	assert.Equal(t, 100, res3.Data.(int))
}

func TestStatePatcher_SlotMismatch(t *testing.T) {
	patcher, _ := NewStatePatcher(&StatePatcherConfig{})

	oldState := makeState(100, nil)
	diff := &differ.StateDiff{FromSlot: 99} // Mismatch!

	_, err := patcher.Patch(oldState, diff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch fromSlot")
}

func TestStatePatcher_MissingPatcher(t *testing.T) {
	// Setup patcher with NO registered functions
	patcher, _ := NewStatePatcher(&StatePatcherConfig{
		Patchers: map[engine.ProtocolSchema]PatcherFunc{},
	})

	schema := engine.ProtocolSchema("unknown")
	oldState := makeState(100, nil)
	diff := &differ.StateDiff{
		FromSlot: 100,
		Protocols: map[engine.ProtocolID]differ.ProtocolDiff{
			"p1": {Schema: schema, Data: 1},
		},
	}

	_, err := patcher.Patch(oldState, diff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no patcher registered")
}

func TestStatePatcher_SchemaMismatch(t *testing.T) {
	// Register schema B
	schemaA := engine.ProtocolSchema("A")
	schemaB := engine.ProtocolSchema("B")
	cfg := &StatePatcherConfig{
		Patchers: map[engine.ProtocolSchema]PatcherFunc{
			schemaB: mockIntPatcher,
		},
	}
	patcher, _ := NewStatePatcher(cfg)

	pID := engine.ProtocolID("p1")

	// Old state has Schema A
	oldState := makeState(100, map[engine.ProtocolID]engine.ProtocolState{
		pID: {Schema: schemaA, Data: 1},
	})

	// Diff attempts to update it using Schema B
	diff := &differ.StateDiff{
		FromSlot: 100,
		Protocols: map[engine.ProtocolID]differ.ProtocolDiff{
			pID: {Schema: schemaB, Data: 1},
		},
	}

	_, err := patcher.Patch(oldState, diff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema mismatch")
}
