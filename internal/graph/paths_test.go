package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSnapshot makes a snapshot with ids 1..n named "p<i>" and the
// given edges.
func buildSnapshot(n int, edges [][2]int64) *Snapshot {
	profiles := make([]Profile, 0, n)
	for i := int64(1); i <= int64(n); i++ {
		profiles = append(profiles, Profile{
			ID:   i,
			Key:  keyFor(i),
			Name: nameFor(i),
		})
	}
	return NewSnapshot(profiles, edges)
}

func keyFor(i int64) string {
	return "https://facebook.com/profile.php?id=" + string(rune('0'+i))
}

func nameFor(i int64) string {
	return "person " + string(rune('0'+i))
}

func fullView(s *Snapshot) *FilteredView {
	return NewFilteredView(s, nil)
}

func TestShortestPath_PathGraph(t *testing.T) {
	// S-X-Y-T as 1-2-3-4
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {2, 3}, {3, 4}})
	view := fullView(snap)

	path, err := ShortestPath(view, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, path)
}

func TestShortestPath_SameNode(t *testing.T) {
	snap := buildSnapshot(2, [][2]int64{{1, 2}})
	path, err := ShortestPath(fullView(snap), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, path)
}

func TestShortestPath_NoPath(t *testing.T) {
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {3, 4}})
	_, err := ShortestPath(fullView(snap), 1, 4)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestShortestPath_UnknownNode(t *testing.T) {
	snap := buildSnapshot(2, [][2]int64{{1, 2}})
	_, err := ShortestPath(fullView(snap), 1, 99)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

// With two equally short routes, BFS must pick the lowest-id chain so
// results are reproducible run to run.
func TestShortestPath_DeterministicTieBreak(t *testing.T) {
	// 1-2-4 and 1-3-4 both have length 2; expansion order prefers 2.
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {1, 3}, {2, 4}, {3, 4}})
	view := fullView(snap)

	for i := 0; i < 10; i++ {
		path, err := ShortestPath(view, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 4}, path)
	}
}

func TestShortestPath_ExcludedNodeBlocksRoute(t *testing.T) {
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {2, 3}, {3, 4}})

	// End-to-end property from the data model: exclude the cut node
	// and the endpoints become disconnected, not invalid.
	view := NewFilteredView(snap, []int64{3})
	_, err := ShortestPath(view, 1, 4)
	assert.ErrorIs(t, err, ErrNoPath)

	// The excluded node itself is no longer a valid endpoint.
	_, err = ShortestPath(view, 1, 3)
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFilteredView_HidesIncidentEdges(t *testing.T) {
	snap := buildSnapshot(3, [][2]int64{{1, 2}, {2, 3}, {1, 3}})
	view := NewFilteredView(snap, []int64{2})

	assert.False(t, view.Has(2))
	assert.Equal(t, []int64{3}, view.Neighbors(1))
	assert.Equal(t, []int64{1}, view.Neighbors(3))
	assert.Equal(t, 2, view.NodeCount())

	// Underlying snapshot is untouched.
	assert.True(t, snap.Has(2))
	assert.Equal(t, []int64{2, 3}, snap.Neighbors(1))
}

func TestKShortest_OrderAndUniqueness(t *testing.T) {
	// Diamond with a long detour: 1-2-4, 1-3-4, 1-2-3-4 / 1-3-2-4.
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {1, 3}, {2, 4}, {3, 4}, {2, 3}})
	it := NewKShortest(context.Background(), fullView(snap), 1, 4)

	var paths [][]int64
	for it.Next() {
		paths = append(paths, it.Path())
	}
	require.NoError(t, it.Err())
	require.Len(t, paths, 4)

	// Non-decreasing length, deterministic tie-break, no duplicates.
	assert.Equal(t, []int64{1, 2, 4}, paths[0])
	assert.Equal(t, []int64{1, 3, 4}, paths[1])
	assert.Equal(t, []int64{1, 2, 3, 4}, paths[2])
	assert.Equal(t, []int64{1, 3, 2, 4}, paths[3])

	seen := map[string]bool{}
	prevLen := 0
	for _, p := range paths {
		require.GreaterOrEqual(t, len(p), prevLen, "lengths must be non-decreasing")
		prevLen = len(p)
		sig := pathSignature(p)
		require.False(t, seen[sig], "path %v repeated", p)
		seen[sig] = true
	}
}

func TestKShortest_SimplePathsOnly(t *testing.T) {
	snap := buildSnapshot(5, [][2]int64{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {2, 4}, {3, 5}})
	it := NewKShortest(context.Background(), fullView(snap), 1, 5)

	for it.Next() {
		p := it.Path()
		nodes := map[int64]bool{}
		for _, id := range p {
			require.False(t, nodes[id], "node %d repeated in path %v", id, p)
			nodes[id] = true
		}
	}
	require.NoError(t, it.Err())
}

func TestKShortest_ExhaustsWithoutError(t *testing.T) {
	snap := buildSnapshot(3, [][2]int64{{1, 2}, {2, 3}})
	it := NewKShortest(context.Background(), fullView(snap), 1, 3)

	count := 0
	for it.Next() {
		count++
	}
	assert.Equal(t, 1, count)
	assert.NoError(t, it.Err())

	// A disconnected pair yields an empty sequence, still no error.
	snap2 := buildSnapshot(3, [][2]int64{{1, 2}})
	it2 := NewKShortest(context.Background(), fullView(snap2), 1, 3)
	assert.False(t, it2.Next())
	assert.NoError(t, it2.Err())
}

func TestKShortest_UnknownEndpoint(t *testing.T) {
	snap := buildSnapshot(2, [][2]int64{{1, 2}})
	it := NewKShortest(context.Background(), fullView(snap), 1, 42)
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrNodeNotFound)
}

func TestKShortest_Cancellation(t *testing.T) {
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {1, 3}, {2, 4}, {3, 4}})
	ctx, cancel := context.WithCancel(context.Background())
	it := NewKShortest(ctx, fullView(snap), 1, 4)

	require.True(t, it.Next())
	cancel()
	assert.False(t, it.Next())
	assert.True(t, errors.Is(it.Err(), context.Canceled))
}

func TestMultiTargetUnion(t *testing.T) {
	// 1 connects to 4 and 6 over a shared spine; 4 and 6 connect
	// directly through 5.
	snap := buildSnapshot(6, [][2]int64{
		{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {2, 6},
	})
	view := fullView(snap)

	u, err := MultiTargetUnion(view, 1, []int64{4, 6})
	require.NoError(t, err)

	// source->4: 1-2-3-4; source->6: 1-2-6; 4<->6: 4-5-6.
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, u.SortedNodes())
	assert.Equal(t, [][2]int64{
		{1, 2}, {2, 3}, {2, 6}, {3, 4}, {4, 5}, {5, 6},
	}, u.SortedEdges())
}

func TestMultiTargetUnion_UnreachablePairSkipped(t *testing.T) {
	snap := buildSnapshot(4, [][2]int64{{1, 2}, {3, 4}})
	view := fullView(snap)

	u, err := MultiTargetUnion(view, 1, []int64{2, 4})
	require.NoError(t, err)

	// Only 1-2 is reachable; node 4 drops out of the union entirely.
	assert.Equal(t, []int64{1, 2}, u.SortedNodes())
	assert.Equal(t, [][2]int64{{1, 2}}, u.SortedEdges())
}

func TestMultiTargetUnion_UnknownTarget(t *testing.T) {
	snap := buildSnapshot(2, [][2]int64{{1, 2}})
	_, err := MultiTargetUnion(fullView(snap), 1, []int64{99})
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestSnapshot_DropsSelfLoopsAndDuplicates(t *testing.T) {
	snap := buildSnapshot(3, [][2]int64{
		{1, 2}, {2, 1}, {1, 1}, {2, 3}, {2, 3},
	})
	assert.Equal(t, 3, snap.NodeCount())
	assert.Equal(t, 2, snap.EdgeCount())
	assert.Equal(t, [][2]int64{{1, 2}, {2, 3}}, snap.Edges())
}
