package graph

import "sort"

// Union is the combined node and edge set of several shortest-path
// computations. Edges are stored in canonical (min,max) order.
type Union struct {
	Nodes map[int64]struct{}
	Edges map[[2]int64]struct{}
}

// MultiTargetUnion computes the shortest path from source to every
// target and between every unordered pair of targets, and returns the
// union of all traversed nodes and edges. Unreachable pairs are
// skipped, so the result may be a disconnected collection of path
// subgraphs; it is empty only when nothing at all is reachable.
func MultiTargetUnion(view *FilteredView, source int64, targets []int64) (*Union, error) {
	if !view.Has(source) {
		return nil, ErrNodeNotFound
	}
	for _, t := range targets {
		if !view.Has(t) {
			return nil, ErrNodeNotFound
		}
	}

	u := &Union{
		Nodes: make(map[int64]struct{}),
		Edges: make(map[[2]int64]struct{}),
	}

	for _, t := range targets {
		u.addPath(view, source, t)
	}
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			u.addPath(view, targets[i], targets[j])
		}
	}
	return u, nil
}

func (u *Union) addPath(view *FilteredView, from, to int64) {
	path, ok := bfsPath(view, from, to, nil, nil)
	if !ok {
		return
	}
	for i, id := range path {
		u.Nodes[id] = struct{}{}
		if i > 0 {
			a, b := CanonicalEdge(path[i-1], id)
			u.Edges[[2]int64{a, b}] = struct{}{}
		}
	}
}

// SortedNodes returns the union's node ids in ascending order.
func (u *Union) SortedNodes() []int64 {
	nodes := make([]int64, 0, len(u.Nodes))
	for id := range u.Nodes {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// SortedEdges returns the union's edges sorted by endpoints.
func (u *Union) SortedEdges() [][2]int64 {
	edges := make([][2]int64, 0, len(u.Edges))
	for e := range u.Edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}
