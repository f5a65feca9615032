// SPDX-License-Identifier: MIT

package dcsolver_test

import (
	"math"
	"testing"

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

// triangleTopology is the 3-bus loop with reactances 0.1/0.1/0.2 and slack "1".
func triangleTopology(t testing.TB) *network.Topology {
	t.Helper()
	topo, err := network.NewTopology(buses("1", "2", "3"), []network.Branch{
		line("1-2", "1", "2", 0.1),
		line("2-3", "2", "3", 0.1),
		line("1-3", "1", "3", 0.2),
	}, "1")
	require.NoError(t, err)

	return topo
}

// meshTopology is a 6-bus ring with two chords and a radial spur 6-7.
func meshTopology(t testing.TB) *network.Topology {
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

// meshInjections is a balanced-ish dispatch; the slack absorbs the rest.
var meshInjections = map[string]float64{"2": 1.5, "3": -0.7, "4": 0.9, "5": -1.2, "6": 0.4, "7": -0.3}

// factor builds B′ and factors it.
func factor(t testing.TB, topo *network.Topology) (*susceptance.Matrix, *dcsolver.Factorization) {
	t.Helper()
	sys, err := susceptance.Build(topo)
	require.NoError(t, err)
	f, err := dcsolver.Factorize(sys)
	require.NoError(t, err)

	return sys, f
}

// reducedInjections maps bus-ID injections into the reduced vector of sys.
func reducedInjections(t testing.TB, sys *susceptance.Matrix, byBus map[string]float64) []float64 {
	t.Helper()
	full, err := dcsolver.InjectionVector(sys, byBus)
	require.NoError(t, err)
	red, err := dcsolver.ReducedInjections(sys, full)
	require.NoError(t, err)

	return red
}

// requireRelClose asserts ‖got − want‖∞ ≤ rel·max(‖want‖∞, 1).
func requireRelClose(t testing.TB, want, got []float64, rel float64) {
	t.Helper()
	require.Len(t, got, len(want))
	scale, diff := 1.0, 0.0
	for i := range want {
		scale = math.Max(scale, math.Abs(want[i]))
		diff = math.Max(diff, math.Abs(want[i]-got[i]))
	}
	require.LessOrEqualf(t, diff, rel*scale, "max abs diff %.3g", diff)
}
