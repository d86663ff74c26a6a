package fusionamm

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/holiman/uint256"
)

type PoolSystemDiff struct {
	Additions []PoolView `json:"additions,omitempty"`
	Updates   []PoolView `json:"updates,omitempty"`
	Deletions []string   `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d PoolSystemDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

func u128Eq(a, b *uint256.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Eq(b)
}

func i128Eq(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func tickChanged(old, new Tick) bool {
	if old.Initialized != new.Initialized ||
		old.Age != new.Age ||
		old.OpenOrdersInput != new.OpenOrdersInput ||
		old.PartFilledOrdersInput != new.PartFilledOrdersInput ||
		old.PartFilledOrdersRemainingInput != new.PartFilledOrdersRemainingInput ||
		old.FulfilledAToBOrdersInput != new.FulfilledAToBOrdersInput ||
		old.FulfilledBToAOrdersInput != new.FulfilledBToAOrdersInput {
		return true
	}
	if !i128Eq(old.LiquidityNet, new.LiquidityNet) {
		return true
	}
	if !u128Eq(old.LiquidityGross, new.LiquidityGross) {
		return true
	}
	if !u128Eq(old.FeeGrowthOutsideA, new.FeeGrowthOutsideA) ||
		!u128Eq(old.FeeGrowthOutsideB, new.FeeGrowthOutsideB) {
		return true
	}
	return false
}

func poolChanged(old, new PoolView) bool {
	// 1. Compare core dynamic fields

	op, np := old.Pool, new.Pool
	if op.TickCurrentIndex != np.TickCurrentIndex ||
		op.TickSpacing != np.TickSpacing ||
		op.FeeRate != np.FeeRate ||
		op.ProtocolFeeRate != np.ProtocolFeeRate ||
		op.OrderProtocolFeeRate != np.OrderProtocolFeeRate ||
		op.ClpRewardRate != np.ClpRewardRate {
		return true
	}

	if !u128Eq(op.SqrtPrice, np.SqrtPrice) || !u128Eq(op.Liquidity, np.Liquidity) {
		return true
	}

	if !u128Eq(op.FeeGrowthGlobalA, np.FeeGrowthGlobalA) ||
		!u128Eq(op.FeeGrowthGlobalB, np.FeeGrowthGlobalB) {
		return true
	}

	if op.OrdersTotalAmountA != np.OrdersTotalAmountA ||
		op.OrdersTotalAmountB != np.OrdersTotalAmountB ||
		op.OrdersFilledAmountA != np.OrdersFilledAmountA ||
		op.OrdersFilledAmountB != np.OrdersFilledAmountB ||
		op.OlpFeeOwedA != np.OlpFeeOwedA ||
		op.OlpFeeOwedB != np.OlpFeeOwedB {
		return true
	}

	// 2. Compare tick arrays (order-insensitive)

	if len(old.TickArrays) != len(new.TickArrays) {
		return true
	}

	// Make sorted copies so comparison is independent of slice order
	oldArrays := make([]TickArray, len(old.TickArrays))
	copy(oldArrays, old.TickArrays)
	sort.Slice(oldArrays, func(i, j int) bool {
		return oldArrays[i].StartTickIndex < oldArrays[j].StartTickIndex
	})

	newArrays := make([]TickArray, len(new.TickArrays))
	copy(newArrays, new.TickArrays)
	sort.Slice(newArrays, func(i, j int) bool {
		return newArrays[i].StartTickIndex < newArrays[j].StartTickIndex
	})

	for i := range oldArrays {
		if oldArrays[i].StartTickIndex != newArrays[i].StartTickIndex {
			return true
		}
		for j := range oldArrays[i].Ticks {
			if tickChanged(oldArrays[i].Ticks[j], newArrays[i].Ticks[j]) {
				return true
			}
		}
	}

	// Everything matched
	return false
}

// Differ calculates the difference between two full pool-system views
// (Old -> New), keyed by pool address.
func Differ(old, new []PoolView) PoolSystemDiff {
	oldPoolsMap := make(map[string]PoolView, len(old))
	for _, view := range old {
		oldPoolsMap[view.Address] = view
	}

	newPoolsMap := make(map[string]PoolView, len(new))
	for _, view := range new {
		newPoolsMap[view.Address] = view
	}

	var additions []PoolView
	var updates []PoolView
	var deletions []string

	// Identify Additions and Updates
	for newAddr, newView := range newPoolsMap {
		oldView, exists := oldPoolsMap[newAddr]
		if !exists {
			additions = append(additions, newView)
		} else if poolChanged(oldView, newView) {
			updates = append(updates, newView)
		}
	}

	// Identify Deletions
	for oldAddr := range oldPoolsMap {
		if _, exists := newPoolsMap[oldAddr]; !exists {
			deletions = append(deletions, oldAddr)
		}
	}

	return PoolSystemDiff{
		Additions: additions,
		Updates:   updates,
		Deletions: deletions,
	}
}

// DiffState adapts Differ to the schema-keyed engine signature.
func DiffState(old, new any) (any, error) {
	oldViews, ok := old.([]PoolView)
	if !ok && old != nil {
		return nil, fmt.Errorf("fusionamm: unexpected old state type %T", old)
	}
	newViews, ok := new.([]PoolView)
	if !ok && new != nil {
		return nil, fmt.Errorf("fusionamm: unexpected new state type %T", new)
	}
	return Differ(oldViews, newViews), nil
}
