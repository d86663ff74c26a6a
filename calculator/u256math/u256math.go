// Package u256math provides the 256-bit helpers shared by the settlement
// math. Every routine is exact: rounding only happens where a caller asks
// for it.
package u256math

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

var one = uint256.NewInt(1)

type scratch struct {
	num *uint256.Int
	rem *uint256.Int
}

var pool = sync.Pool{
	New: func() any {
		return &scratch{
			num: new(uint256.Int),
			rem: new(uint256.Int),
		}
	},
}

// MulDiv computes amount * mul / div into dest with the requested rounding.
// The intermediate product is exact; only the final division rounds.
func MulDiv(dest *uint256.Int, amount uint64, mul, div *uint256.Int, roundUp bool) error {
	if div.IsZero() {
		return fusionamm.ErrArithmeticOverflow
	}
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	s.num.SetUint64(amount)
	if _, overflow := s.num.MulOverflow(s.num, mul); overflow {
		return fusionamm.ErrArithmeticOverflow
	}
	dest.DivMod(s.num, div, s.rem)
	if roundUp && !s.rem.IsZero() {
		dest.Add(dest, one)
	}
	return nil
}

// MulDivU64 is MulDiv narrowed to a u64 result.
func MulDivU64(amount uint64, mul, div *uint256.Int, roundUp bool) (uint64, error) {
	var dest uint256.Int
	if err := MulDiv(&dest, amount, mul, div, roundUp); err != nil {
		return 0, err
	}
	if !dest.IsUint64() {
		return 0, fusionamm.ErrAmountExceedsMaxU64
	}
	return dest.Uint64(), nil
}

// DivRound divides num by div into dest, rounding up when asked.
func DivRound(dest, num, div *uint256.Int, roundUp bool) error {
	if div.IsZero() {
		return fusionamm.ErrArithmeticOverflow
	}
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	dest.DivMod(num, div, s.rem)
	if roundUp && !s.rem.IsZero() {
		dest.Add(dest, one)
	}
	return nil
}

// ToU64 narrows x to a u64.
func ToU64(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, fusionamm.ErrAmountExceedsMaxU64
	}
	return x.Uint64(), nil
}

// CheckU128 rejects values wider than 128 bits.
func CheckU128(x *uint256.Int) error {
	if x.BitLen() > 128 {
		return fusionamm.ErrArithmeticOverflow
	}
	return nil
}
