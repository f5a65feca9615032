// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gridsens/dcsolver"
	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
	"github.com/katalvlaran/gridsens/susceptance"
)

const (
	opComputePTDF    = "sensitivity.ComputePTDF"
	opPTDFFromTopo   = "sensitivity.PTDFFromTopology"
	opPTDFAt         = "PTDF.At"
	opPTDFRow        = "PTDF.Row"
	opTransferFactor = "PTDF.TransferFactor"
)

// PTDF is an immutable (branch × bus) table of injection sensitivities.
type PTDF struct {
	sys      *susceptance.Matrix
	branches []string       // row order
	rowIdx   map[string]int // branch ID → row
	data     *matrix.Dense  // len(branches) × N
	complete bool           // every participating branch has a row
}

// ComputePTDF derives the PTDF table from a base factorization.
//
// Implementation:
//   - Stage 1: resolve the rows (all branches, or WithMonitoredBranches).
//   - Stage 2: collect the X columns to solve for: every non-slack bus
//     (dense mode) or the distinct non-slack terminals of monitored rows.
//   - Stage 3: solve the columns on an errgroup bounded by WithWorkers;
//     each goroutine writes only its own slot, so the result is deterministic.
//   - Stage 4: combine per row.
//
// Errors:
//   - ErrNilInput; ErrUnknownBranch for monitored IDs not in the topology;
//     solve errors from the factorization.
//
// Complexity:
//   - Dense: O(n³) time, O(L·n + n²) space. Monitored: O(t·n²), t = terminals.
func ComputePTDF(f *dcsolver.Factorization, opts ...Option) (*PTDF, error) {
	if f == nil {
		return nil, fmt.Errorf("%s: %w", opComputePTDF, ErrNilInput)
	}
	o := gatherOptions(opts)
	sys := f.System()
	n := sys.N()

	// Stage 1: rows.
	rows := o.monitored
	dense := rows == nil
	if dense {
		rows = sys.BranchIDs()
	}
	p := &PTDF{sys: sys, branches: rows, rowIdx: make(map[string]int, len(rows))}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no monitored branches: %w", opComputePTDF, ErrUnknownBranch)
	}
	for r, id := range rows {
		if _, _, _, ok := sys.BranchTerminals(id); !ok {
			return nil, fmt.Errorf("%s: branch %q: %w", opComputePTDF, id, ErrUnknownBranch)
		}
		if _, dup := p.rowIdx[id]; dup {
			return nil, fmt.Errorf("%s: branch %q: %w", opComputePTDF, id, network.ErrDuplicateID)
		}
		p.rowIdx[id] = r
	}
	p.complete = len(p.rowIdx) == len(sys.BranchIDs())

	// Stage 2: columns of X needed (full bus index → slot).
	need := make([]bool, n)
	if dense {
		for b := range need {
			need[b] = true
		}
	} else {
		for _, id := range rows {
			from, to, _, _ := sys.BranchTerminals(id)
			need[from], need[to] = true, true
		}
	}
	need[sys.SlackIndex()] = false // slack column of X is identically zero

	// Stage 3: solves.
	cols := make([][]float64, n)
	var g errgroup.Group
	g.SetLimit(o.workers)
	for b := 0; b < n; b++ {
		if !need[b] {
			continue
		}
		g.Go(func() error {
			col, err := f.InverseColumn(b)
			if err != nil {
				return err
			}
			cols[b] = col

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", opComputePTDF, err)
	}

	// Stage 4: rows.
	data, err := matrix.NewDense(len(rows), n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opComputePTDF, err)
	}
	for r, id := range rows {
		from, to, b, _ := sys.BranchTerminals(id)
		if dense {
			// PTDF[ℓ,k] = (X[i,k] − X[j,k])·b, reading rows of X from columns.
			for k := 0; k < n; k++ {
				if cols[k] == nil {
					continue
				}
				if err = data.Set(r, k, (cols[k][from]-cols[k][to])*b); err != nil {
					return nil, fmt.Errorf("%s: %w", opComputePTDF, err)
				}
			}
			continue
		}
		// Symmetry: row i of X equals column i.
		xi, xj := cols[from], cols[to]
		for k := 0; k < n; k++ {
			var v float64
			if xi != nil {
				v += xi[k]
			}
			if xj != nil {
				v -= xj[k]
			}
			if err = data.Set(r, k, v*b); err != nil {
				return nil, fmt.Errorf("%s: %w", opComputePTDF, err)
			}
		}
	}
	p.data = data

	return p, nil
}

// PTDFFromTopology builds B′, factors it and computes the PTDF in one call.
func PTDFFromTopology(topo *network.Topology, opts ...Option) (*PTDF, error) {
	sys, err := susceptance.Build(topo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opPTDFFromTopo, err)
	}
	f, err := dcsolver.Factorize(sys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opPTDFFromTopo, err)
	}

	return ComputePTDF(f, opts...)
}

// System returns the susceptance matrix the table was derived from.
func (p *PTDF) System() *susceptance.Matrix { return p.sys }

// BranchIDs returns the row IDs in order (copy).
func (p *PTDF) BranchIDs() []string { return append([]string(nil), p.branches...) }

// BusIDs returns the column IDs in order.
func (p *PTDF) BusIDs() []string { return p.sys.BusIDs() }

// Complete reports whether every participating branch has a row.
func (p *PTDF) Complete() bool { return p.complete }

// At returns PTDF[branchID, busID].
//
// Errors:
//   - ErrUnknownBranch for IDs without a row; ErrUnknownBus for buses not in service.
func (p *PTDF) At(branchID, busID string) (float64, error) {
	r, ok := p.rowIdx[branchID]
	if !ok {
		return 0, fmt.Errorf("%s: branch %q: %w", opPTDFAt, branchID, ErrUnknownBranch)
	}
	c, ok := p.sys.BusIndex(busID)
	if !ok {
		return 0, fmt.Errorf("%s: bus %q: %w", opPTDFAt, busID, ErrUnknownBus)
	}

	v, err := p.at(r, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opPTDFAt, err)
	}

	return v, nil
}

// Row returns the sensitivities of branchID to every bus, in BusIDs order (copy).
func (p *PTDF) Row(branchID string) ([]float64, error) {
	r, ok := p.rowIdx[branchID]
	if !ok {
		return nil, fmt.Errorf("%s: branch %q: %w", opPTDFRow, branchID, ErrUnknownBranch)
	}

	return p.data.Row(r)
}

// TransferFactor returns the flow change on branchID per unit transferred
// from fromBus to toBus: PTDF[ℓ,from] − PTDF[ℓ,to].
func (p *PTDF) TransferFactor(branchID, fromBus, toBus string) (float64, error) {
	a, err := p.At(branchID, fromBus)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opTransferFactor, err)
	}
	b, err := p.At(branchID, toBus)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opTransferFactor, err)
	}

	return a - b, nil
}

// at reads the table by row/column position.
func (p *PTDF) at(r, c int) (float64, error) {
	return p.data.At(r, c)
}

// transfer returns PTDF[r,i] − PTDF[r,j].
func (p *PTDF) transfer(r, i, j int) (float64, error) {
	a, err := p.at(r, i)
	if err != nil {
		return 0, err
	}
	b, err := p.at(r, j)
	if err != nil {
		return 0, err
	}

	return a - b, nil
}

// row returns the position of branchID.
func (p *PTDF) row(branchID string) (int, bool) {
	r, ok := p.rowIdx[branchID]

	return r, ok
}
