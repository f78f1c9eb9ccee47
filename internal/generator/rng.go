package generator

import (
	"math/rand"
)

// RNG wraps math/rand.Rand for seeded random generation
// An RNG belongs to a single generation call and is never shared
type RNG struct {
	*rand.Rand
}

// NewRNG creates a new seeded random number generator
func NewRNG(seed int64) *RNG {
	return &RNG{
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// Int64Between returns a uniform integer in [min, max]
func (r *RNG) Int64Between(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + r.Int63n(max-min+1)
}

// Pick returns a uniform element of choices
func (r *RNG) Pick(choices []string) string {
	return choices[r.Intn(len(choices))]
}
