// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/gridsens/network"
)

// Constructor adds buses and branches to a draft. Constructors validate
// their parameters first and never panic.
type Constructor func(d *Draft, cfg builderConfig) error

// Draft accumulates buses (in first-seen order) and branches.
type Draft struct {
	buses    []network.Bus
	seen     map[string]bool
	branches []network.Branch
	ids      map[string]int // branch base ID → count, for parallel suffixes
}

func newDraft() *Draft {
	return &Draft{seen: make(map[string]bool), ids: make(map[string]int)}
}

// NumBuses returns the number of buses added so far.
func (d *Draft) NumBuses() int { return len(d.buses) }

// NumBranches returns the number of branches added so far.
func (d *Draft) NumBranches() int { return len(d.branches) }

// addBus registers bus idx once.
func (d *Draft) addBus(cfg builderConfig, idx int) string {
	id := cfg.idFn(idx)
	if !d.seen[id] {
		d.seen[id] = true
		d.buses = append(d.buses, network.Bus{ID: id, InService: true})
	}

	return id
}

// addBranch connects buses i and j. IDs are "from-to"; parallels get "#2", "#3"...
func (d *Draft) addBranch(cfg builderConfig, i, j int) {
	from, to := d.addBus(cfg, i), d.addBus(cfg, j)
	id := from + "-" + to
	d.ids[id]++
	if n := d.ids[id]; n > 1 {
		id += "#" + strconv.Itoa(n)
	}
	d.branches = append(d.branches, network.Branch{
		ID:        id,
		From:      from,
		To:        to,
		Reactance: cfg.reactance(cfg.rng),
		InService: true,
		RatingMW:  cfg.ratingMW,
	})
}

// Build resolves opts, applies cons in order and validates the result with
// network.NewTopology.
//
// Errors:
//   - ErrConstructFailed for a nil constructor.
//   - Constructor sentinels, wrapped as "Build: %w".
//   - Any network.NewTopology error (e.g. network.ErrNoBranches).
func Build(opts []BuilderOption, cons ...Constructor) (*network.Topology, error) {
	cfg := newBuilderConfig(opts...)
	d := newDraft()
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("Build: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(d, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}

	var nopts []network.Option
	if cfg.requireCon {
		nopts = append(nopts, network.WithRequireConnected())
	}
	topo, err := network.NewTopology(d.buses, d.branches, cfg.slack, nopts...)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	return topo, nil
}
