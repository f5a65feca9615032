// SPDX-License-Identifier: MIT

package builder

import "errors"

// ErrTooFewBuses indicates a size parameter below the constructor minimum.
var ErrTooFewBuses = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor or an unusable draft.
var ErrConstructFailed = errors.New("builder: construction failed")
