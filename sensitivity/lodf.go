// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gridsens/susceptance"
)

// UndefinedThreshold is the smallest |1 − PTDF[m,f_m] + PTDF[m,t_m]| for
// which LODF column m is defined.
const UndefinedThreshold = 1e-10

const (
	opComputeLODF = "sensitivity.ComputeLODF"
	opLODFFactor  = "LODF.Factor"
	opEstimate    = "LODF.EstimatePostOutageFlow"
)

// Factor is one LODF entry. Value is ±Inf when Defined is false.
type Factor struct {
	Value   float64
	Defined bool
}

// LODF is an immutable (branch × branch) table of outage distribution factors.
type LODF struct {
	branches []string
	idx      map[string]int
	values   []float64 // row-major L×L; may hold ±Inf
	undef    []bool    // per outaged branch m: column undefined
}

// ComputeLODF derives the LODF table from a PTDF that covers every branch.
//
// Implementation:
//   - Stage 1: per outaged branch m, the denominator
//     1 − (PTDF[m,f_m] − PTDF[m,t_m]); below UndefinedThreshold the whole
//     column (off the diagonal) is undefined.
//   - Stage 2: per pair (ℓ, m), ℓ ≠ m, the transfer numerator
//     PTDF[ℓ,f_m] − PTDF[ℓ,t_m] over that denominator; undefined entries take
//     the sign of the numerator (+ when it is 0) times +Inf.
//   - Diagonal entries are exactly −1.
//
// Errors:
//   - ErrNilInput; ErrSystemMismatch when sys is not p.System();
//     ErrIncompletePTDF when a branch of sys has no PTDF row.
//
// Complexity:
//   - Time O(L²), Space O(L²).
func ComputeLODF(p *PTDF, sys *susceptance.Matrix) (*LODF, error) {
	if p == nil || sys == nil {
		return nil, fmt.Errorf("%s: %w", opComputeLODF, ErrNilInput)
	}
	if sys != p.System() {
		return nil, fmt.Errorf("%s: %w", opComputeLODF, ErrSystemMismatch)
	}
	ids := sys.BranchIDs()
	l := len(ids)
	rows := make([]int, l) // PTDF row per branch
	for k, id := range ids {
		r, ok := p.row(id)
		if !ok {
			return nil, fmt.Errorf("%s: branch %q: %w", opComputeLODF, id, ErrIncompletePTDF)
		}
		rows[k] = r
	}

	out := &LODF{
		branches: ids,
		idx:      make(map[string]int, l),
		values:   make([]float64, l*l),
		undef:    make([]bool, l),
	}
	for k, id := range ids {
		out.idx[id] = k
	}

	// Stage 1: denominators.
	from := make([]int, l)
	to := make([]int, l)
	den := make([]float64, l)
	var (
		num float64
		err error
	)
	for m, id := range ids {
		from[m], to[m], _, _ = sys.BranchTerminals(id)
		if num, err = p.transfer(rows[m], from[m], to[m]); err != nil {
			return nil, fmt.Errorf("%s: branch %q: %w", opComputeLODF, id, err)
		}
		den[m] = 1 - num
		out.undef[m] = math.Abs(den[m]) < UndefinedThreshold
	}

	// Stage 2: entries.
	for lr := 0; lr < l; lr++ {
		base := lr * l
		for m := 0; m < l; m++ {
			if lr == m {
				out.values[base+m] = -1
				continue
			}
			if num, err = p.transfer(rows[lr], from[m], to[m]); err != nil {
				return nil, fmt.Errorf("%s: %w", opComputeLODF, err)
			}
			if out.undef[m] {
				if num < 0 {
					out.values[base+m] = math.Inf(-1)
				} else {
					out.values[base+m] = math.Inf(1)
				}
				continue
			}
			out.values[base+m] = num / den[m]
		}
	}

	return out, nil
}

// BranchIDs returns the row/column IDs in order (copy).
func (d *LODF) BranchIDs() []string { return append([]string(nil), d.branches...) }

// Factor returns LODF[l, m] with its Defined flag.
//
// Errors:
//   - ErrUnknownBranch for either ID.
func (d *LODF) Factor(l, m string) (Factor, error) {
	i, ok := d.idx[l]
	if !ok {
		return Factor{}, fmt.Errorf("%s: branch %q: %w", opLODFFactor, l, ErrUnknownBranch)
	}
	j, ok := d.idx[m]
	if !ok {
		return Factor{}, fmt.Errorf("%s: branch %q: %w", opLODFFactor, m, ErrUnknownBranch)
	}

	return Factor{Value: d.values[i*len(d.branches)+j], Defined: i == j || !d.undef[j]}, nil
}

// At returns LODF[l, m], which may be ±Inf.
func (d *LODF) At(l, m string) (float64, error) {
	f, err := d.Factor(l, m)

	return f.Value, err
}

// IsDefined reports whether LODF[l, m] is a finite, usable factor.
// Unknown IDs report false.
func (d *LODF) IsDefined(l, m string) bool {
	f, err := d.Factor(l, m)

	return err == nil && f.Defined
}

// EstimatePostOutageFlow returns flowL + LODF[l,m]·flowM, the linear estimate
// of branch l's flow after branch m trips.
//
// Errors:
//   - ErrUnknownBranch; ErrUndefinedFactor when the outage of m islands the
//     network (exact re-solve required).
func (d *LODF) EstimatePostOutageFlow(l, m string, flowL, flowM float64) (float64, error) {
	f, err := d.Factor(l, m)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opEstimate, err)
	}
	if !f.Defined {
		return 0, fmt.Errorf("%s: (%q, %q): %w", opEstimate, l, m, ErrUndefinedFactor)
	}

	return flowL + f.Value*flowM, nil
}

// Undefined lists every off-diagonal (l, m) pair with an undefined factor,
// row-major in branch order. This is the exact re-solve worklist.
func (d *LODF) Undefined() [][2]string {
	var out [][2]string
	for i, l := range d.branches {
		for j, m := range d.branches {
			if i != j && d.undef[j] {
				out = append(out, [2]string{l, m})
			}
		}
	}

	return out
}

// UndefinedOutages lists the branches whose outage makes their column undefined.
func (d *LODF) UndefinedOutages() []string {
	var out []string
	for j, m := range d.branches {
		if d.undef[j] {
			out = append(out, m)
		}
	}

	return out
}
