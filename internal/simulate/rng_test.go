package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntBetweenInclusive(t *testing.T) {
	rng := newStageRNG(1)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := intBetween(rng, 3, 5)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "both endpoints must be reachable")

	assert.Equal(t, 7, intBetween(rng, 7, 7))
}

func TestUniformHalfOpen(t *testing.T) {
	rng := newStageRNG(1)
	for i := 0; i < 1000; i++ {
		v := uniform(rng, 0.85, 1.15)
		assert.GreaterOrEqual(t, v, 0.85)
		assert.Less(t, v, 1.15)
	}
}

func TestPoissonMean(t *testing.T) {
	rng := newStageRNG(42)
	const lambda = 12.0
	const n = 20000

	sum := 0
	for i := 0; i < n; i++ {
		sum += poisson(rng, lambda)
	}
	assert.InDelta(t, lambda, float64(sum)/n, 0.2)

	assert.Zero(t, poisson(rng, 0))
	assert.Zero(t, poisson(rng, -1))
}

func TestRounding(t *testing.T) {
	assert.InDelta(t, 12.3, round1(12.34), 1e-12)
	assert.InDelta(t, 12.4, round1(12.37), 1e-12)
	assert.InDelta(t, 12.35, round2(12.347), 1e-12)
	assert.InDelta(t, -3.1, round1(-3.14), 1e-12)
}
