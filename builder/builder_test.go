// SPDX-License-Identifier: MIT

package builder_test

import (
	"testing"

	"github.com/katalvlaran/gridsens/builder"
	"github.com/katalvlaran/gridsens/network"
	"github.com/stretchr/testify/require"
)

func TestRing(t *testing.T) {
	topo, err := builder.Build(nil, builder.Ring(6))
	require.NoError(t, err)
	require.Equal(t, 6, topo.NumBuses())
	require.Equal(t, 6, topo.NumBranches())
	require.Empty(t, topo.Bridges())
	require.Equal(t, "1", topo.Slack())
	require.Equal(t, []string{"1-2", "2-3", "3-4", "4-5", "5-6", "6-1"}, topo.BranchIDs())
}

func TestPathIsAllBridges(t *testing.T) {
	topo, err := builder.Build(nil, builder.Path(4))
	require.NoError(t, err)
	require.Len(t, topo.Bridges(), 3)
}

func TestGrid(t *testing.T) {
	topo, err := builder.Build(nil, builder.Grid(3, 4))
	require.NoError(t, err)
	require.Equal(t, 12, topo.NumBuses())
	require.Equal(t, 3*3+2*4, topo.NumBranches())
	require.True(t, topo.IsConnected())
	require.Empty(t, topo.Bridges())
}

func TestSpurOnRing(t *testing.T) {
	topo, err := builder.Build(nil, builder.Ring(4), builder.Spur(1, 2))
	require.NoError(t, err)
	require.Equal(t, 6, topo.NumBuses())
	require.Equal(t, map[string]bool{"2-5": true, "5-6": true}, topo.Bridges())
}

func TestParallelBranchIDs(t *testing.T) {
	topo, err := builder.Build(nil, builder.Ring(3), builder.Ring(3))
	require.NoError(t, err)
	require.Equal(t, 3, topo.NumBuses())
	require.Equal(t, []string{"1-2", "2-3", "3-1", "1-2#2", "2-3#2", "3-1#2"}, topo.BranchIDs())
}

func TestRandomChordsDeterministic(t *testing.T) {
	opts := []builder.BuilderOption{
		builder.WithSeed(7),
		builder.WithReactanceFn(builder.UniformReactance(0.05, 0.3)),
	}
	a, err := builder.Build(opts, builder.Ring(12), builder.RandomChords(12, 0.2))
	require.NoError(t, err)
	opts[0] = builder.WithSeed(7)
	b, err := builder.Build(opts, builder.Ring(12), builder.RandomChords(12, 0.2))
	require.NoError(t, err)
	require.Equal(t, a.Branches(), b.Branches())

	for _, br := range a.Branches() {
		require.GreaterOrEqual(t, br.Reactance, 0.05)
		require.Less(t, br.Reactance, 0.3)
	}
}

func TestRandomChordsExtremes(t *testing.T) {
	full, err := builder.Build(nil, builder.Ring(5), builder.RandomChords(5, 1))
	require.NoError(t, err)
	require.Equal(t, 10, full.NumBranches())

	none, err := builder.Build(nil, builder.Ring(5), builder.RandomChords(5, 0))
	require.NoError(t, err)
	require.Equal(t, 5, none.NumBranches())
}

func TestOptions(t *testing.T) {
	topo, err := builder.Build([]builder.BuilderOption{
		builder.WithIDScheme(builder.PrefixIDFn("bus")),
		builder.WithSlack("bus3"),
		builder.WithRating(150),
		builder.WithRequireConnected(),
	}, builder.Ring(4))
	require.NoError(t, err)
	require.Equal(t, "bus3", topo.Slack())
	br, ok := topo.Branch("bus1-bus2")
	require.True(t, ok)
	require.Equal(t, 150.0, br.RatingMW)
	require.Equal(t, builder.DefaultReactance, br.Reactance)
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		opts []builder.BuilderOption
		cons []builder.Constructor
		want error
	}{
		{"small ring", nil, []builder.Constructor{builder.Ring(2)}, builder.ErrTooFewBuses},
		{"small path", nil, []builder.Constructor{builder.Path(1)}, builder.ErrTooFewBuses},
		{"thin grid", nil, []builder.Constructor{builder.Grid(1, 5)}, builder.ErrTooFewBuses},
		{"empty spur", nil, []builder.Constructor{builder.Ring(3), builder.Spur(0, 0)}, builder.ErrTooFewBuses},
		{"spur off draft", nil, []builder.Constructor{builder.Ring(3), builder.Spur(9, 1)}, builder.ErrConstructFailed},
		{"bad p", nil, []builder.Constructor{builder.RandomChords(4, 1.5)}, builder.ErrInvalidProbability},
		{"no rng", nil, []builder.Constructor{builder.RandomChords(4, 0.5)}, builder.ErrNeedRandSource},
		{"nil constructor", nil, []builder.Constructor{nil}, builder.ErrConstructFailed},
		{"nothing built", nil, nil, network.ErrTooFewBuses},
		{"connected feeder", []builder.BuilderOption{builder.WithRequireConnected()},
			[]builder.Constructor{builder.Path(2), builder.Spur(1, 1), builder.RandomChords(2, 0)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.Build(tc.opts, tc.cons...)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOptionPanics(t *testing.T) {
	require.Panics(t, func() { builder.WithIDScheme(nil) })
	require.Panics(t, func() { builder.WithRand(nil) })
	require.Panics(t, func() { builder.WithReactanceFn(nil) })
	require.Panics(t, func() { builder.UniformReactance(0, 1) })
	require.Panics(t, func() { builder.UniformReactance(0.2, 0.1) })
	require.Panics(t, func() { builder.WithRating(-1) })
}
