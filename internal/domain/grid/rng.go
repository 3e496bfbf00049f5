package grid

import "github.com/okian/momentgrid/internal/domain/model"

// LCG constants. The recurrence must stay bit-for-bit stable: published daily
// grids are reproduced from it.
const (
	lcgMul = 9301
	lcgInc = 49297
	lcgMod = 233280
)

// LCG is the linear congruential generator driving candidate generation.
type LCG struct {
	state uint64
}

// NewLCG seeds a generator.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: uint64(seed)}
}

// Next advances the generator and returns a value in [0, 1).
func (r *LCG) Next() float64 {
	r.state = (r.state*lcgMul + lcgInc) % lcgMod
	return float64(r.state) / lcgMod
}

// Shuffle returns a Fisher-Yates shuffled copy of items.
func Shuffle[T any](items []T, r *LCG) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SeedFor derives the seed of a (date, league) pair: the sum of the character
// codes of the date plus the sum of the character codes of the league id.
// The unfiltered view contributes nothing for the league.
func SeedFor(date string, league model.League) uint32 {
	var seed uint32
	for _, c := range date {
		seed += uint32(c) //nolint:gosec // code points are non-negative
	}
	for _, c := range string(league) {
		seed += uint32(c) //nolint:gosec // code points are non-negative
	}
	return seed
}
