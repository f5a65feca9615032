// SPDX-License-Identifier: MIT

package network_test

import (
	"testing"

	"github.com/katalvlaran/gridsens/network"
	"github.com/stretchr/testify/require"
)

// busesOf returns in-service buses with the given IDs.
func busesOf(ids ...string) []network.Bus {
	out := make([]network.Bus, len(ids))
	for i, id := range ids {
		out[i] = network.Bus{ID: id, InService: true}
	}

	return out
}

// line returns an in-service branch with nominal tap.
func line(id, from, to string, x float64) network.Branch {
	return network.Branch{ID: id, From: from, To: to, Reactance: x, InService: true}
}

// triangle is the 3-bus loop with reactances 0.1/0.1/0.2 and slack "1".
func triangle(t testing.TB, opts ...network.Option) *network.Topology {
	t.Helper()
	topo, err := network.NewTopology(
		busesOf("1", "2", "3"),
		[]network.Branch{
			line("1-2", "1", "2", 0.1),
			line("2-3", "2", "3", 0.1),
			line("1-3", "1", "3", 0.2),
		},
		"1", opts...,
	)
	require.NoError(t, err)

	return topo
}
