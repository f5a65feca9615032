// SPDX-License-Identifier: MIT

package susceptance

import "math"

// DefaultReactanceEpsilon is the smallest accepted |x_eff| in per-unit.
const DefaultReactanceEpsilon = 1e-6

const panicEpsilonInvalid = "susceptance: WithReactanceEpsilon: eps must be finite and > 0"

// Option configures Build.
type Option func(*options)

type options struct {
	strict bool
	eps    float64
}

// WithStrictReactance rejects near-zero effective reactances with
// ErrZeroReactance instead of clamping them.
func WithStrictReactance() Option {
	return func(o *options) { o.strict = true }
}

// WithReactanceEpsilon overrides DefaultReactanceEpsilon.
// Panics if eps is not finite and positive (programmer error).
func WithReactanceEpsilon(eps float64) Option {
	if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicEpsilonInvalid)
	}

	return func(o *options) { o.eps = eps }
}

func gatherOptions(opts []Option) options {
	o := options{eps: DefaultReactanceEpsilon}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
