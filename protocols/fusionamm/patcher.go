package fusionamm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// --- Deep Copy Helper Functions ---

func copyU128(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return v.Clone()
}

func copyTick(t Tick) Tick {
	newTick := t
	if t.LiquidityNet != nil {
		newTick.LiquidityNet = new(big.Int).Set(t.LiquidityNet)
	}
	newTick.LiquidityGross = copyU128(t.LiquidityGross)
	newTick.FeeGrowthOutsideA = copyU128(t.FeeGrowthOutsideA)
	newTick.FeeGrowthOutsideB = copyU128(t.FeeGrowthOutsideB)
	return newTick
}

func copyPool(p *Pool) *Pool {
	if p == nil {
		return nil
	}
	newPool := *p
	newPool.Liquidity = copyU128(p.Liquidity)
	newPool.SqrtPrice = copyU128(p.SqrtPrice)
	newPool.FeeGrowthGlobalA = copyU128(p.FeeGrowthGlobalA)
	newPool.FeeGrowthGlobalB = copyU128(p.FeeGrowthGlobalB)
	return &newPool
}

// deepCopyPoolView creates a new PoolView with its own memory for all pointer
// types, including every tick of every tick array.
func deepCopyPoolView(v PoolView) PoolView {
	newView := v
	newView.Pool = copyPool(v.Pool)

	if v.TickArrays != nil {
		newArrays := make([]TickArray, len(v.TickArrays))
		for i, array := range v.TickArrays {
			newArrays[i].StartTickIndex = array.StartTickIndex
			for j, tick := range array.Ticks {
				newArrays[i].Ticks[j] = copyTick(tick)
			}
		}
		newView.TickArrays = newArrays
	}
	return newView
}

// --- Patcher Implementation ---

// Patcher constructs a new pool-system state by applying a diff to a previous
// state. prevState is never mutated.
func Patcher(prevState []PoolView, diff PoolSystemDiff) ([]PoolView, error) {
	// 1. Create a map from the previous state for efficient manipulation, ensuring a deep copy.
	newStateMap := make(map[string]PoolView, len(prevState))
	for _, view := range prevState {
		newStateMap[view.Address] = deepCopyPoolView(view)
	}

	// 2. Process deletions.
	for _, addr := range diff.Deletions {
		delete(newStateMap, addr)
	}

	// 3. Process updates by replacing the old view with a deep copy of the new one.
	for _, updated := range diff.Updates {
		newStateMap[updated.Address] = deepCopyPoolView(updated)
	}

	// 4. Process additions with a deep copy.
	for _, added := range diff.Additions {
		newStateMap[added.Address] = deepCopyPoolView(added)
	}

	// 5. Convert the final map back into a slice.
	finalState := make([]PoolView, 0, len(newStateMap))
	for _, view := range newStateMap {
		finalState = append(finalState, view)
	}

	return finalState, nil
}

// PatchState adapts Patcher to the schema-keyed engine signature. prevState
// may be nil for a newly added protocol.
func PatchState(prevState any, diffData any) (any, error) {
	var views []PoolView
	if prevState != nil {
		typed, ok := prevState.([]PoolView)
		if !ok {
			return nil, fmt.Errorf("fusionamm: unexpected previous state type %T", prevState)
		}
		views = typed
	}
	diff, ok := diffData.(PoolSystemDiff)
	if !ok {
		return nil, fmt.Errorf("fusionamm: unexpected diff type %T", diffData)
	}
	return Patcher(views, diff)
}
