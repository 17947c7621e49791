package simulate

import (
	"math"
	"math/rand"
)

// Each stage owns a generator seeded from the configured seed, so stage
// outputs are reproducible and substitutable in tests. The sequence and
// count of draws per stage is part of the determinism contract: reordering
// loops or adding draws changes every downstream value.
func newStageRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from the half-open interval [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// intBetween draws a uniform integer from the inclusive range [lo, hi].
func intBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// poisson draws a Poisson-distributed count using Knuth's product method.
// Daily demand rates here stay well under 100, where the method is exact
// and cheap; exp(-lambda) stays comfortably above float64 underflow.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
