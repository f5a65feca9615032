// SPDX-License-Identifier: MIT

package builder

import "fmt"

const (
	methodRing         = "Ring"
	methodPath         = "Path"
	methodGrid         = "Grid"
	methodSpur         = "Spur"
	methodRandomChords = "RandomChords"

	minRingBuses = 3
	minPathBuses = 2
	minGridDim   = 2
	minSpurLen   = 1

	probMin = 0.0
	probMax = 1.0
)

// Ring builds buses 0..n-1 and branches i→(i+1)%n. Every branch of a ring
// survives a single outage without islanding.
func Ring(n int) Constructor {
	return func(d *Draft, cfg builderConfig) error {
		if n < minRingBuses {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRing, n, minRingBuses, ErrTooFewBuses)
		}
		for i := 0; i < n; i++ {
			d.addBranch(cfg, i, (i+1)%n)
		}

		return nil
	}
}

// Path builds buses 0..n-1 and branches i→i+1. Every branch is a bridge.
func Path(n int) Constructor {
	return func(d *Draft, cfg builderConfig) error {
		if n < minPathBuses {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathBuses, ErrTooFewBuses)
		}
		for i := 0; i+1 < n; i++ {
			d.addBranch(cfg, i, i+1)
		}

		return nil
	}
}

// Grid builds a rows×cols lattice, bus index r*cols+c, emitting the
// rightward branch before the downward one for each bus in row-major order.
func Grid(rows, cols int) Constructor {
	return func(d *Draft, cfg builderConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: %dx%d < min=%d: %w", methodGrid, rows, cols, minGridDim, ErrTooFewBuses)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				i := r*cols + c
				if c+1 < cols {
					d.addBranch(cfg, i, i+1)
				}
				if r+1 < rows {
					d.addBranch(cfg, i, i+cols)
				}
			}
		}

		return nil
	}
}

// Spur hangs a radial feeder of length buses off bus `at`. Feeder buses take
// the next free indices of the draft, so Spur composes after any constructor.
func Spur(at, length int) Constructor {
	return func(d *Draft, cfg builderConfig) error {
		if length < minSpurLen {
			return fmt.Errorf("%s: length=%d < min=%d: %w", methodSpur, length, minSpurLen, ErrTooFewBuses)
		}
		if at < 0 || at >= d.NumBuses() {
			return fmt.Errorf("%s: attach bus %d of %d: %w", methodSpur, at, d.NumBuses(), ErrConstructFailed)
		}
		prev, next := at, d.NumBuses()
		for k := 0; k < length; k++ {
			d.addBranch(cfg, prev, next)
			prev, next = next, next+1
		}

		return nil
	}
}

// RandomChords adds, for every unordered pair {i<j} of the first n buses
// not already adjacent, a chord with probability p. 0 < p < 1 needs an RNG;
// p ∈ {0, 1} is deterministic.
//
// Complexity: O(n²) trials.
func RandomChords(n int, p float64) Constructor {
	return func(d *Draft, cfg builderConfig) error {
		if n < minPathBuses {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRandomChords, n, minPathBuses, ErrTooFewBuses)
		}
		if p < probMin || p > probMax {
			return fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w",
				methodRandomChords, p, probMin, probMax, ErrInvalidProbability)
		}
		if cfg.rng == nil && p > probMin && p < probMax {
			return fmt.Errorf("%s: %w", methodRandomChords, ErrNeedRandSource)
		}

		adjacent := make(map[[2]string]bool, len(d.branches))
		for _, br := range d.branches {
			adjacent[[2]string{br.From, br.To}] = true
			adjacent[[2]string{br.To, br.From}] = true
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if adjacent[[2]string{cfg.idFn(i), cfg.idFn(j)}] {
					continue
				}
				switch {
				case p == probMax:
				case p == probMin:
					continue
				case cfg.rng.Float64() >= p:
					continue
				}
				d.addBranch(cfg, i, j)
			}
		}

		return nil
	}
}
