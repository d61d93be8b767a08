package simulation

import (
	"math/rand"

	"github.com/learnpath/datasim/internal/persona"
)

// All randomness flows through an explicit *rand.Rand so a seeded run is
// fully reproducible.

// randInt returns a uniform int in [min, max] inclusive.
func randInt(r *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

func randFloat(r *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

func intIn(r *rand.Rand, rg persona.IntRange) int {
	return randInt(r, rg.Min, rg.Max)
}

func floatIn(r *rand.Rand, rg persona.FloatRange) float64 {
	return randFloat(r, rg.Min, rg.Max)
}

func chance(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

// sampleDistinct draws k distinct ints from [0, n).
func sampleDistinct(r *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	perm := r.Perm(n)
	return perm[:k]
}
