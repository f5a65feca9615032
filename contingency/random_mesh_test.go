// SPDX-License-Identifier: MIT

package contingency_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/gridsens/builder"
	"github.com/katalvlaran/gridsens/contingency"
	"github.com/stretchr/testify/require"
)

// TestRandomMeshN2 compares composed Woodbury against refactorization on
// seeded ring-plus-chords networks with a radial feeder.
func TestRandomMeshN2(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		topo, err := builder.Build([]builder.BuilderOption{
			builder.WithSeed(seed),
			builder.WithReactanceFn(builder.UniformReactance(0.05, 0.5)),
		}, builder.Ring(8), builder.RandomChords(8, 0.25), builder.Spur(3, 2))
		require.NoError(t, err)

		inj := map[string]float64{"2": 0.8, "4": -0.6, "6": 0.3, "10": -0.4}
		scr, err := contingency.NewScreener(topo, inj, limitedConfig(1))
		require.NoError(t, err)

		rep, err := scr.Run(context.Background(), contingency.UpTo(topo, 2))
		require.NoError(t, err)
		require.Zero(t, rep.Failed)
		for _, r := range rep.Results {
			if len(topo.IslandsWithout(r.Contingency.Outages...)) > 1 {
				require.True(t, r.Islanded, r.Contingency.String())
				continue
			}
			require.False(t, r.Islanded, r.Contingency.String())
			requireFlows(t, exactFlows(t, topo, inj, r.Contingency.Outages...), r.Flows, 1e-8)
		}
	}
}
