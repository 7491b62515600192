package compose

import "math/rand/v2"

// Source is the randomness used for sparse thinning and melody contour.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a seeded PCG source, or an unseeded one when seed is 0.
// Output from an unseeded source differs from run to run.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
