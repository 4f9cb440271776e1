package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noisegraph/internal/acoustics"
)

func reductionGraph(t *testing.T) *Graph {
	t.Helper()
	g := mustGraph(t,
		room("A", acoustics.CategoryClassroom, 60, 0, 0, 0, 1),
		room("B", acoustics.CategoryClassroom, 62, 1, 0, 0, 1),
		room("C", acoustics.CategoryClassroom, 58, 2, 0, 0, 1),
		room("H", acoustics.CategoryHallway, 40, 1, 3, 0, 1),
		room("Upstairs", acoustics.CategoryClassroom, 60, 0, 0, 0.5, 2),
		room("Office", acoustics.CategoryOffice, 60, 0.5, 0, 0, 1),
		room("Loud", acoustics.CategoryClassroom, 70, 0, 1, 0, 1),
	)
	for _, pair := range [][2]string{{"A", "H"}, {"B", "H"}, {"C", "H"}, {"B", "C"}, {"Upstairs", "A"}, {"Loud", "B"}} {
		require.NoError(t, g.Connect(pair[0], pair[1]))
	}
	return g
}

func TestMergeCandidates(t *testing.T) {
	g := reductionGraph(t)
	want := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	if diff := cmp.Diff(want, g.MergeCandidates(DefaultReduceOptions())); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce(t *testing.T) {
	g := reductionGraph(t)
	before := g.Len()

	result := g.Reduce(DefaultReduceOptions())

	want := []Merge{
		{Kept: "A", Removed: "B", Noise: 61},
		{Kept: "A", Removed: "C", Noise: 59.5},
	}
	if diff := cmp.Diff(want, result.Merges); diff != "" {
		t.Fatalf("merges mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, before-len(result.Merges), g.Len())
	assert.Equal(t, []string{"A", "H", "Upstairs", "Office", "Loud"}, g.Names())

	assert.ElementsMatch(t, []string{"H", "Upstairs", "Loud"}, neighbors(t, g, "A"))
	assert.Equal(t, []string{"A"}, neighbors(t, g, "H"))
	assert.Equal(t, []string{"A"}, neighbors(t, g, "Loud"))

	positions := g.Positions()
	assert.NotContains(t, positions, "B")
	assert.NotContains(t, positions, "C")
	assert.Len(t, positions, g.Len())
}

func TestReduceLeavesNoDanglingLinks(t *testing.T) {
	g := reductionGraph(t)
	g.Reduce(DefaultReduceOptions())

	for _, name := range g.Names() {
		for _, n := range neighbors(t, g, name) {
			require.True(t, g.Has(n), "%s links to removed room %s", name, n)
			require.True(t, g.Connected(n, name), "%s -> %s is not reciprocal", name, n)
		}
	}
}

func TestReduceRespectsOptions(t *testing.T) {
	g := reductionGraph(t)
	result := g.Reduce(ReduceOptions{NoiseTolerance: 1, MaxDistance: 0.5})
	assert.Empty(t, result.Merges)
	assert.Equal(t, 7, g.Len())
}

func TestReduceZeroToleranceMergesEqualNoise(t *testing.T) {
	g := mustGraph(t,
		room("A", acoustics.CategoryClassroom, 60, 0, 0, 0, 1),
		room("B", acoustics.CategoryClassroom, 60, 1, 0, 0, 1),
		room("C", acoustics.CategoryClassroom, 60.5, 0, 1, 0, 1),
	)
	result := g.Reduce(ReduceOptions{NoiseTolerance: 0, MaxDistance: 2})
	require.Len(t, result.Merges, 1)
	assert.Equal(t, Merge{Kept: "A", Removed: "B", Noise: 60}, result.Merges[0])
	assert.True(t, g.Has("C"))
}

func TestReduceEmptyGraph(t *testing.T) {
	result := New().Reduce(DefaultReduceOptions())
	assert.Empty(t, result.Merges)
	assert.Zero(t, result.Skipped)
}
