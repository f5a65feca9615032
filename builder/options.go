// SPDX-License-Identifier: MIT

package builder

import (
	"math"
	"math/rand"
)

// BuilderOption customizes Build before any constructor runs.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the bus ID generator. Panics on nil.
func WithIDScheme(fn IDFn) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}

	return func(c *builderConfig) { c.idFn = fn }
}

// WithRand supplies the RNG for stochastic constructors. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}

	return func(c *builderConfig) { c.rng = r }
}

// WithSeed seeds a fresh RNG: equal seeds give equal networks.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithReactanceFn overrides the per-branch reactance generator. It receives
// the configured RNG, which may be nil. Panics on nil.
func WithReactanceFn(fn func(*rand.Rand) float64) BuilderOption {
	if fn == nil {
		panic("builder: WithReactanceFn(nil)")
	}

	return func(c *builderConfig) { c.reactance = fn }
}

// UniformReactance draws reactances from U[lo, hi); with a nil RNG it
// returns the midpoint. Panics unless 0 < lo <= hi.
func UniformReactance(lo, hi float64) func(*rand.Rand) float64 {
	if !(lo > 0) || hi < lo || math.IsInf(hi, 0) {
		panic("builder: UniformReactance: need 0 < lo <= hi")
	}

	return func(r *rand.Rand) float64 {
		if r == nil {
			return (lo + hi) / 2
		}

		return lo + r.Float64()*(hi-lo)
	}
}

// WithRating sets RatingMW on every generated branch. Panics on negative mw.
func WithRating(mw float64) BuilderOption {
	if !(mw >= 0) {
		panic("builder: WithRating: mw must be >= 0")
	}

	return func(c *builderConfig) { c.ratingMW = mw }
}

// WithSlack names the slack bus; empty picks the first bus.
func WithSlack(id string) BuilderOption {
	return func(c *builderConfig) { c.slack = id }
}

// WithRequireConnected forwards network.WithRequireConnected.
func WithRequireConnected() BuilderOption {
	return func(c *builderConfig) { c.requireCon = true }
}
