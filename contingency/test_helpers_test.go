// SPDX-License-Identifier: MIT

package contingency_test

import (
	"testing"

	"github.com/katalvlaran/gridsens/contingency"
	"github.com/katalvlaran/gridsens/dcsolver"
	"github.com/katalvlaran/gridsens/network"
	"github.com/katalvlaran/gridsens/susceptance"
	"github.com/stretchr/testify/require"
)

func line(id, from, to string, x float64) network.Branch {
	return network.Branch{ID: id, From: from, To: to, Reactance: x, InService: true}
}

func buses(ids ...string) []network.Bus {
	out := make([]network.Bus, len(ids))
	for i, id := range ids {
		out[i] = network.Bus{ID: id, InService: true}
	}

	return out
}

// triangle is the 3-bus loop 0.1/0.1/0.2 with slack "1".
// With triangleLoads the base flows are 1-2: 1.25, 2-3: 0.25, 1-3: 0.75.
func triangle(t testing.TB) *network.Topology {
	t.Helper()
	topo, err := network.NewTopology(buses("1", "2", "3"), []network.Branch{
		line("1-2", "1", "2", 0.1),
		line("2-3", "2", "3", 0.1),
		line("1-3", "1", "3", 0.2),
	}, "1")
	require.NoError(t, err)

	return topo
}

var triangleLoads = map[string]float64{"2": -1, "3": -1}

// mesh is a 6-bus ring with two chords and the radial spur 6-7 (a bridge).
func mesh(t testing.TB) *network.Topology {
	t.Helper()
	topo, err := network.NewTopology(buses("1", "2", "3", "4", "5", "6", "7"), []network.Branch{
		line("1-2", "1", "2", 0.10),
		line("2-3", "2", "3", 0.15),
		line("3-4", "3", "4", 0.20),
		line("4-5", "4", "5", 0.10),
		line("5-6", "5", "6", 0.12),
		line("6-1", "6", "1", 0.30),
		line("2-5", "2", "5", 0.25),
		{ID: "3-6", From: "3", To: "6", Reactance: 0.18, TapRatio: 1.05, InService: true},
		line("6-7", "6", "7", 0.05),
	}, "1")
	require.NoError(t, err)

	return topo
}

var meshInjections = map[string]float64{"2": 1.5, "3": -0.7, "4": 0.9, "5": -1.2, "6": 0.4, "7": -0.3}

// limitedConfig returns the default config with a uniform limit.
func limitedConfig(limit float64) contingency.Config {
	cfg := contingency.DefaultConfig()
	cfg.DefaultLimitMW = limit

	return cfg
}

// exactFlows rebuilds and refactors topo without outages and solves injections.
func exactFlows(t testing.TB, topo *network.Topology, injections map[string]float64, outages ...string) map[string]float64 {
	t.Helper()
	post, err := topo.WithoutBranches(outages...)
	require.NoError(t, err)
	sys, err := susceptance.Build(post)
	require.NoError(t, err)
	f, err := dcsolver.Factorize(sys)
	require.NoError(t, err)
	p, err := dcsolver.InjectionVector(sys, injections)
	require.NoError(t, err)
	angles, err := f.SolveFull(p)
	require.NoError(t, err)
	flows, err := dcsolver.BranchFlows(sys, angles)
	require.NoError(t, err)

	return flows
}

// requireFlows compares got against want; branches absent from want must be 0.
func requireFlows(t testing.TB, want, got map[string]float64, delta float64) {
	t.Helper()
	for id, g := range got {
		require.InDelta(t, want[id], g, delta, "branch %s", id)
	}
	for id := range want {
		require.Contains(t, got, id)
	}
}
