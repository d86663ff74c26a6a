// Package sqrtpricemath relates token amounts, liquidity and Q64.64 sqrt
// prices. Every routine mirrors the on-chain rounding exactly: token A
// amounts are derived through a 2^64-scaled quotient of sqrt prices, token B
// amounts through a 64-bit shift of the liquidity product.
package sqrtpricemath

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/calculator/u256math"
	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

var one = uint256.NewInt(1)

type scratch struct {
	num *uint256.Int
	den *uint256.Int
	rem *uint256.Int
	tmp *uint256.Int
}

var pool = sync.Pool{
	New: func() any {
		return &scratch{
			num: new(uint256.Int),
			den: new(uint256.Int),
			rem: new(uint256.Int),
			tmp: new(uint256.Int),
		}
	},
}

// AmountDeltaA returns the token A amount spanned by liquidity between the
// two sqrt prices: L * (hi - lo) * 2^64 / (lo * hi).
func AmountDeltaA(sqrtPrice1, sqrtPrice2, liquidity *uint256.Int, roundUp bool) (uint64, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	lo, hi := orderPrices(sqrtPrice1, sqrtPrice2)
	s.num.Sub(hi, lo)
	s.num.Mul(s.num, liquidity)
	if s.num.BitLen() > 192 {
		return 0, fusionamm.ErrArithmeticOverflow
	}
	s.num.Lsh(s.num, 64)
	s.den.Mul(lo, hi)
	if err := u256math.DivRound(s.tmp, s.num, s.den, roundUp); err != nil {
		return 0, err
	}
	return u256math.ToU64(s.tmp)
}

// AmountDeltaB returns the token B amount spanned by liquidity between the
// two sqrt prices: L * (hi - lo) >> 64.
func AmountDeltaB(sqrtPrice1, sqrtPrice2, liquidity *uint256.Int, roundUp bool) (uint64, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	lo, hi := orderPrices(sqrtPrice1, sqrtPrice2)
	s.num.Sub(hi, lo)
	s.num.Mul(s.num, liquidity)
	s.rem.And(s.num, maskQ64)
	s.num.Rsh(s.num, 64)
	if roundUp && !s.rem.IsZero() {
		s.num.Add(s.num, one)
	}
	return u256math.ToU64(s.num)
}

// NextSqrtPriceFromA returns the sqrt price after trading amount of token A
// at the given liquidity, rounding the result up. specifiedInput selects
// whether amount enters (price falls) or leaves (price rises) the pool.
func NextSqrtPriceFromA(sqrtPrice, liquidity *uint256.Int, amount uint64, specifiedInput bool) (*uint256.Int, error) {
	if amount == 0 {
		return sqrtPrice.Clone(), nil
	}
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	s.num.Mul(sqrtPrice, liquidity)
	if s.num.BitLen() > 192 {
		return nil, fusionamm.ErrArithmeticOverflow
	}
	s.num.Lsh(s.num, 64)

	s.tmp.SetUint64(amount)
	s.tmp.Mul(s.tmp, sqrtPrice)
	s.den.Lsh(liquidity, 64)
	if specifiedInput {
		s.den.Add(s.den, s.tmp)
	} else {
		if s.tmp.Cmp(s.den) >= 0 {
			return nil, fusionamm.ErrSqrtPriceOutOfBounds
		}
		s.den.Sub(s.den, s.tmp)
	}

	dest := new(uint256.Int)
	if err := u256math.DivRound(dest, s.num, s.den, true); err != nil {
		return nil, err
	}
	if dest.BitLen() > 128 {
		return nil, fusionamm.ErrSqrtPriceOutOfBounds
	}
	return dest, nil
}

// NextSqrtPriceFromB returns the sqrt price after trading amount of token B
// at the given liquidity. The price delta rounds down when the price rises
// and up when it falls, keeping the movement conservative.
func NextSqrtPriceFromB(sqrtPrice, liquidity *uint256.Int, amount uint64, specifiedInput bool) (*uint256.Int, error) {
	if amount == 0 {
		return sqrtPrice.Clone(), nil
	}
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	s.num.SetUint64(amount)
	s.num.Lsh(s.num, 64)
	if err := u256math.DivRound(s.tmp, s.num, liquidity, !specifiedInput); err != nil {
		return nil, err
	}

	dest := new(uint256.Int)
	if specifiedInput {
		dest.Add(sqrtPrice, s.tmp)
		if dest.BitLen() > 128 {
			return nil, fusionamm.ErrSqrtPriceOutOfBounds
		}
	} else {
		if s.tmp.Gt(sqrtPrice) {
			return nil, fusionamm.ErrSqrtPriceOutOfBounds
		}
		dest.Sub(sqrtPrice, s.tmp)
	}
	return dest, nil
}

// LimitOrderOutputAmount converts a limit order input amount at sqrtPrice.
// Orders selling token A convert through sqrtPrice^2 >> 128, orders selling
// token B through the reciprocal.
func LimitOrderOutputAmount(input uint64, aToBOrder bool, sqrtPrice *uint256.Int, roundUp bool) (uint64, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	s.den.Mul(sqrtPrice, sqrtPrice)
	if aToBOrder {
		s.num.SetUint64(input)
		if _, overflow := s.num.MulOverflow(s.num, s.den); overflow {
			return 0, fusionamm.ErrAmountExceedsMaxU64
		}
		s.rem.And(s.num, maskQ128)
		s.num.Rsh(s.num, 128)
		if roundUp && !s.rem.IsZero() {
			s.num.Add(s.num, one)
		}
		return u256math.ToU64(s.num)
	}
	s.num.SetUint64(input)
	s.num.Lsh(s.num, 128)
	if err := u256math.DivRound(s.tmp, s.num, s.den, roundUp); err != nil {
		return 0, err
	}
	return u256math.ToU64(s.tmp)
}

// LiquidityFromA returns the liquidity that amount of token A provides
// between the two sqrt prices.
func LiquidityFromA(amount uint64, sqrtPriceLower, sqrtPriceUpper *uint256.Int) (*uint256.Int, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	s.num.SetUint64(amount)
	if _, overflow := s.num.MulOverflow(s.num, sqrtPriceLower); overflow {
		return nil, fusionamm.ErrArithmeticOverflow
	}
	if _, overflow := s.num.MulOverflow(s.num, sqrtPriceUpper); overflow {
		return nil, fusionamm.ErrArithmeticOverflow
	}
	s.num.Rsh(s.num, 64)
	s.den.Sub(sqrtPriceUpper, sqrtPriceLower)

	dest := new(uint256.Int)
	if err := u256math.DivRound(dest, s.num, s.den, false); err != nil {
		return nil, err
	}
	if err := u256math.CheckU128(dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// LiquidityFromB returns the liquidity that amount of token B provides
// between the two sqrt prices.
func LiquidityFromB(amount uint64, sqrtPriceLower, sqrtPriceUpper *uint256.Int) (*uint256.Int, error) {
	s := pool.Get().(*scratch)
	defer pool.Put(s)

	s.num.SetUint64(amount)
	s.num.Lsh(s.num, 64)
	s.den.Sub(sqrtPriceUpper, sqrtPriceLower)

	dest := new(uint256.Int)
	if err := u256math.DivRound(dest, s.num, s.den, false); err != nil {
		return nil, err
	}
	if err := u256math.CheckU128(dest); err != nil {
		return nil, err
	}
	return dest, nil
}

var (
	maskQ64  = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(one, 64), 1)
	maskQ128 = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(one, 128), 1)
)

func orderPrices(p1, p2 *uint256.Int) (lo, hi *uint256.Int) {
	if p1.Lt(p2) {
		return p1, p2
	}
	return p2, p1
}
