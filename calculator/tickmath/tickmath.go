// Package tickmath converts between tick indexes and Q64.64 sqrt prices.
// The conversion is exact: it reproduces the on-chain power tables bit for
// bit, so every price here is byte-identical to what the program computes.
package tickmath

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/defistate/fusionamm-go/protocols/fusionamm"
)

var (
	one = uint256.NewInt(1)

	// Q64 multipliers for sqrt(1.0001^-2^i), i in 0..18. Applied with a
	// 64-bit right shift per factor.
	negRatios = [19]*uint256.Int{
		uint256.NewInt(18445821805675392311),
		uint256.NewInt(18444899583751176498),
		uint256.NewInt(18443055278223354162),
		uint256.NewInt(18439367220385604838),
		uint256.NewInt(18431993317065449817),
		uint256.NewInt(18417254355718160513),
		uint256.NewInt(18387811781193591352),
		uint256.NewInt(18329067761203520168),
		uint256.NewInt(18212142134806087854),
		uint256.NewInt(17980523815641551639),
		uint256.NewInt(17526086738831147013),
		uint256.NewInt(16651378430235024244),
		uint256.NewInt(15030750278693429944),
		uint256.NewInt(12247334978882834399),
		uint256.NewInt(8131365268884726200),
		uint256.NewInt(3584323654723342297),
		uint256.NewInt(696457651847595233),
		uint256.NewInt(26294789957452057),
		uint256.NewInt(37481735321082),
	}

	// Q96 multipliers for sqrt(1.0001^2^i), i in 0..18. Applied with a
	// 96-bit right shift per factor; the accumulated Q96 ratio is narrowed
	// to Q64 at the end.
	posRatios = [19]*uint256.Int{
		uint256.MustFromDecimal("79232123823359799118286999567"),
		uint256.MustFromDecimal("79236085330515764027303304731"),
		uint256.MustFromDecimal("79244008939048815603706035061"),
		uint256.MustFromDecimal("79259858533276714757314932305"),
		uint256.MustFromDecimal("79291567232598584799939703904"),
		uint256.MustFromDecimal("79355022692464371645785046466"),
		uint256.MustFromDecimal("79482085999252804386437311141"),
		uint256.MustFromDecimal("79736823300114093921829183326"),
		uint256.MustFromDecimal("80248749790819932309965073892"),
		uint256.MustFromDecimal("81282483887344747381513967011"),
		uint256.MustFromDecimal("83390072131320151908154831281"),
		uint256.MustFromDecimal("87770609709833776024991924138"),
		uint256.MustFromDecimal("97234110755111693312479820773"),
		uint256.MustFromDecimal("119332217159966728226237229890"),
		uint256.MustFromDecimal("179736315981702064433883588727"),
		uint256.MustFromDecimal("407748233172238350107850275304"),
		uint256.MustFromDecimal("2098478828474011932436660412517"),
		uint256.MustFromDecimal("55581415166113811149459800483533"),
		uint256.MustFromDecimal("38992368544603139932233054999993551"),
	}

	qOne64 = new(uint256.Int).Lsh(one, 64)
	qOne96 = new(uint256.Int).Lsh(one, 96)
)

// probePool recycles the scratch value used by the binary search.
var probePool = sync.Pool{
	New: func() any { return new(uint256.Int) },
}

// TickIndexToSqrtPrice returns the Q64.64 sqrt price of tick.
func TickIndexToSqrtPrice(tick int32) (*uint256.Int, error) {
	if !IsTickInBounds(tick) {
		return nil, fusionamm.ErrTickIndexOutOfBounds
	}
	dest := new(uint256.Int)
	sqrtPriceInto(dest, tick)
	return dest, nil
}

// sqrtPriceInto assumes tick is in bounds.
func sqrtPriceInto(dest *uint256.Int, tick int32) {
	if tick >= 0 {
		positiveSqrtPrice(dest, uint32(tick))
	} else {
		negativeSqrtPrice(dest, uint32(-tick))
	}
}

func negativeSqrtPrice(dest *uint256.Int, absTick uint32) {
	if absTick&1 != 0 {
		dest.Set(negRatios[0])
	} else {
		dest.Set(qOne64)
	}
	for i := 1; i < len(negRatios); i++ {
		if absTick&(1<<i) != 0 {
			dest.Mul(dest, negRatios[i]).Rsh(dest, 64)
		}
	}
}

func positiveSqrtPrice(dest *uint256.Int, absTick uint32) {
	if absTick&1 != 0 {
		dest.Set(posRatios[0])
	} else {
		dest.Set(qOne96)
	}
	for i := 1; i < len(posRatios); i++ {
		if absTick&(1<<i) != 0 {
			dest.Mul(dest, posRatios[i]).Rsh(dest, 96)
		}
	}
	dest.Rsh(dest, 32)
}

// SqrtPriceToTickIndex returns the greatest tick whose sqrt price is at most
// sqrtPrice. It is the exact left inverse of TickIndexToSqrtPrice over the
// valid tick domain.
func SqrtPriceToTickIndex(sqrtPrice *uint256.Int) (int32, error) {
	if sqrtPrice.Lt(fusionamm.MinSqrtPrice) || sqrtPrice.Gt(fusionamm.MaxSqrtPrice) {
		return 0, fusionamm.ErrSqrtPriceOutOfBounds
	}

	probe := probePool.Get().(*uint256.Int)
	defer probePool.Put(probe)

	low := int32(fusionamm.MinTickIndex)
	high := int32(fusionamm.MaxTickIndex)
	tick := low
	for low <= high {
		mid := (low + high) / 2
		sqrtPriceInto(probe, mid)
		if probe.Cmp(sqrtPrice) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}

// TickArrayStartIndex returns the start index of the tick array covering
// tick at the given spacing.
func TickArrayStartIndex(tick int32, tickSpacing uint16) int32 {
	ticksPerArray := int32(tickSpacing) * fusionamm.TickArraySize
	start := tick / ticksPerArray
	if tick < 0 && tick%ticksPerArray != 0 {
		start--
	}
	return start * ticksPerArray
}

// OrderTickIndexes returns the two indexes as an ordered range.
func OrderTickIndexes(tick1, tick2 int32) fusionamm.TickRange {
	if tick1 < tick2 {
		return fusionamm.TickRange{TickLowerIndex: tick1, TickUpperIndex: tick2}
	}
	return fusionamm.TickRange{TickLowerIndex: tick2, TickUpperIndex: tick1}
}

// IsTickInBounds reports whether tick lies in the valid tick domain.
func IsTickInBounds(tick int32) bool {
	return tick >= fusionamm.MinTickIndex && tick <= fusionamm.MaxTickIndex
}

// IsTickInitializable reports whether tick can be initialized at the given
// spacing.
func IsTickInitializable(tick int32, tickSpacing uint16) bool {
	return tick%int32(tickSpacing) == 0 && IsTickInBounds(tick)
}
