package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for aggregation:
// - Identical parts bridging the same nets group into one entry
// - Distinct orientations inside a group emit an orientations array
// - Components without MPN and description pass through with a note
// - Output is ordered by count descending

func conn(net string, pins ...string) Connection {
	return Connection{Pins: pins, Net: net}
}

func TestAggregate_GroupsByMPNAndNetPair(t *testing.T) {
	t.Parallel()

	components := []ComponentResult{
		{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}},
		{Refdes: "R2", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}},
		{Refdes: "R3", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("C", "2")}},
	}

	aggs := aggregate(components, Options{})
	require.Len(t, aggs, 2)

	// R1+R2 share (10k, A|B); R3 bridges a different pair.
	assert.Equal(t, 2, aggs[0].Count)
	assert.Equal(t, []string{"R1", "R2"}, aggs[0].Refdes)
	assert.Equal(t, 1, aggs[1].Count)
	assert.Equal(t, []string{"R3"}, aggs[1].Refdes)
}

func TestAggregate_Orientations(t *testing.T) {
	t.Parallel()

	// Same part, same net pair, opposite pin orientation.
	components := []ComponentResult{
		{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}},
		{Refdes: "R2", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}},
		{Refdes: "R3", MPN: "10k", Connections: []Connection{conn("B", "1"), conn("A", "2")}},
	}

	aggs := aggregate(components, Options{})
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, 3, agg.Count)
	assert.Empty(t, agg.Refdes, "multi-orientation groups emit orientations, not a flat refdes list")
	require.Len(t, agg.Orientations, 2)

	// Sorted by count descending.
	assert.Equal(t, 2, agg.Orientations[0].Count)
	assert.Equal(t, []string{"R1", "R2"}, agg.Orientations[0].Refdes)
	assert.Equal(t, 1, agg.Orientations[1].Count)
	assert.Equal(t, []string{"R3"}, agg.Orientations[1].Refdes)
}

func TestAggregate_MissingMPNPassesThroughWithNote(t *testing.T) {
	t.Parallel()

	components := []ComponentResult{
		{Refdes: "X1", Connections: []Connection{conn("A", "1")}},
	}
	aggs := aggregate(components, Options{})
	require.Len(t, aggs, 1)
	assert.Equal(t, 1, aggs[0].Count)
	assert.Equal(t, []string{"X1"}, aggs[0].Refdes)
	require.Len(t, aggs[0].Notes, 1)
	assert.Contains(t, aggs[0].Notes[0], "MPN")
}

func TestAggregate_DescriptionFallbackGroups(t *testing.T) {
	t.Parallel()

	components := []ComponentResult{
		{Refdes: "D1", Description: "LED red", Connections: []Connection{conn("A", "1"), conn("K", "2")}},
		{Refdes: "D2", Description: "LED red", Connections: []Connection{conn("A", "1"), conn("K", "2")}},
	}
	aggs := aggregate(components, Options{})
	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].Count)
	assert.Equal(t, "LED red", aggs[0].Description)
}

func TestAggregate_CountDescendingOrder(t *testing.T) {
	t.Parallel()

	components := []ComponentResult{
		{Refdes: "C1", MPN: "100n", Connections: []Connection{conn("A", "1"), conn("GNDX", "2")}},
		{Refdes: "R1", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}},
		{Refdes: "R2", MPN: "10k", Connections: []Connection{conn("A", "1"), conn("B", "2")}},
	}
	aggs := aggregate(components, Options{})
	require.Len(t, aggs, 2)
	assert.Equal(t, "10k", aggs[0].MPN)
	assert.Equal(t, "100n", aggs[1].MPN)
}
