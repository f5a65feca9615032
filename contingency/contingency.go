// SPDX-License-Identifier: MIT

package contingency

import (
	"strings"

	"github.com/katalvlaran/gridsens/network"
)

// Contingency is a set of branches taken out of service together.
type Contingency struct {
	Outages []string
	Label   string
}

// Order returns k in N-k.
func (c Contingency) Order() int { return len(c.Outages) }

// String returns Label, or the outages joined with "+".
func (c Contingency) String() string {
	if c.Label != "" {
		return c.Label
	}

	return strings.Join(c.Outages, "+")
}

// N1 returns one contingency per participating branch of topo, in branch
// order.
func N1(topo *network.Topology) []Contingency {
	ids := topo.BranchIDs()
	out := make([]Contingency, len(ids))
	for k, id := range ids {
		out[k] = Contingency{Outages: []string{id}, Label: "N-1 " + id}
	}

	return out
}

// N2 returns every unordered pair of participating branches of topo.
// Complexity: O(L²) contingencies.
func N2(topo *network.Topology) []Contingency {
	ids := topo.BranchIDs()
	out := make([]Contingency, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			out = append(out, Contingency{
				Outages: []string{ids[i], ids[j]},
				Label:   "N-2 " + ids[i] + "+" + ids[j],
			})
		}
	}

	return out
}

// UpTo returns N1 and, when maxOrder >= 2, N2. Deeper sets are left to
// callers: their count grows as L^k.
func UpTo(topo *network.Topology, maxOrder int) []Contingency {
	out := N1(topo)
	if maxOrder >= 2 {
		out = append(out, N2(topo)...)
	}

	return out
}
