// SPDX-License-Identifier: MIT

package network

import "slices"

// walker encapsulates mutable BFS state over the participating branches.
type walker struct {
	topo    *Topology
	skip    map[int]bool // participating branch indices treated as open
	queue   []int
	visited []bool
}

func newWalker(t *Topology, skip map[int]bool) *walker {
	return &walker{
		topo:    t,
		skip:    skip,
		queue:   make([]int, 0, len(t.buses)),
		visited: make([]bool, len(t.buses)),
	}
}

// component returns every bus reachable from start, in visit order.
func (w *walker) component(start int) []int {
	w.visited[start] = true
	w.queue = append(w.queue[:0], start)
	order := make([]int, 0, 1)
	for len(w.queue) > 0 {
		cur := w.queue[0]
		w.queue = w.queue[1:]
		order = append(order, cur)
		for _, a := range w.topo.adj[cur] {
			if w.skip[a.branch] || w.visited[a.to] {
				continue
			}
			w.visited[a.to] = true
			w.queue = append(w.queue, a.to)
		}
	}

	return order
}

// islands groups bus indices into connected components. Components are
// ordered by their lowest bus index and members are sorted ascending.
func (w *walker) islands() [][]int {
	var out [][]int
	for i := range w.topo.buses {
		if w.visited[i] {
			continue
		}
		comp := w.component(i)
		slices.Sort(comp)
		out = append(out, comp)
	}

	return out
}

// Islands returns the connected components of the in-service network as bus
// ID groups. Deterministic: groups ordered by their first bus, members in
// bus index order.
//
// Complexity: O(B + L).
func (t *Topology) Islands() [][]string {
	return t.islandIDs(nil)
}

// IslandsWithout is Islands with the given branches treated as open.
// Unknown or non-participating IDs are ignored.
func (t *Topology) IslandsWithout(ids ...string) [][]string {
	skip := make(map[int]bool, len(ids))
	for _, id := range ids {
		if k, ok := t.brIdx[id]; ok {
			skip[k] = true
		}
	}

	return t.islandIDs(skip)
}

func (t *Topology) islandIDs(skip map[int]bool) [][]string {
	groups := newWalker(t, skip).islands()
	out := make([][]string, len(groups))
	for g, comp := range groups {
		ids := make([]string, len(comp))
		for k, i := range comp {
			ids[k] = t.buses[i].ID
		}
		out[g] = ids
	}

	return out
}

// IsConnected reports whether every in-service bus is reachable from the slack.
func (t *Topology) IsConnected() bool {
	return len(newWalker(t, nil).component(t.slack)) == len(t.buses)
}

// Bridges returns the IDs of participating branches whose removal increases
// the number of islands. Parallel branches between the same bus pair are
// never bridges.
//
// Implementation:
//   - Tarjan low-link DFS; the tree edge back to the parent is skipped by
//     branch index (not by neighbor), so parallel branches count as cycles.
//
// Complexity: O(B + L).
func (t *Topology) Bridges() map[string]bool {
	n := len(t.buses)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	out := make(map[string]bool)
	timer := 0

	var dfs func(u, parentBranch int)
	dfs = func(u, parentBranch int) {
		disc[u], low[u] = timer, timer
		timer++
		for _, a := range t.adj[u] {
			if a.branch == parentBranch {
				continue
			}
			if disc[a.to] == -1 {
				dfs(a.to, a.branch)
				low[u] = min(low[u], low[a.to])
				if low[a.to] > disc[u] {
					out[t.branches[a.branch].ID] = true
				}
				continue
			}
			low[u] = min(low[u], disc[a.to])
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			dfs(i, -1)
		}
	}

	return out
}
