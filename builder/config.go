// SPDX-License-Identifier: MIT

package builder

import (
	"math/rand"
	"strconv"
)

// Deterministic defaults.
const (
	// DefaultReactance is the per-unit reactance of every generated branch
	// unless WithReactanceFn says otherwise.
	DefaultReactance = 0.1
)

// builderConfig holds every resolved knob. Passed by value to constructors.
type builderConfig struct {
	idFn       IDFn
	rng        *rand.Rand
	reactance  func(*rand.Rand) float64
	ratingMW   float64
	slack      string
	requireCon bool
}

// newBuilderConfig applies opts over the defaults, last wins.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:      DefaultIDFn,
		reactance: func(*rand.Rand) float64 { return DefaultReactance },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// IDFn maps a bus index to its ID. Must be pure and injective.
type IDFn func(idx int) string

// DefaultIDFn returns the 1-based decimal ID: 0→"1", 41→"42".
func DefaultIDFn(idx int) string { return strconv.Itoa(idx + 1) }

// PrefixIDFn returns prefix + 1-based index, e.g. "bus1", "bus2".
func PrefixIDFn(prefix string) IDFn {
	return func(idx int) string { return prefix + strconv.Itoa(idx+1) }
}
