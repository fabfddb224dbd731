package graph

import "errors"

// ErrNoPath is the expected outcome of a query over a disconnected
// pair: the nodes exist but no chain of friendships joins them. It is
// distinct from ErrNodeNotFound, which signals a bad query.
var ErrNoPath = errors.New("graph: no path between nodes")

// ErrNodeNotFound is returned when a query endpoint is not a visible
// node of the view.
var ErrNodeNotFound = errors.New("graph: node not in view")

// ShortestPath returns one unweighted shortest path from source to
// target over the view, endpoints included. When several shortest
// paths exist the result is deterministic for a fixed graph: BFS
// expands neighbors in ascending id order, so the lowest-id chain at
// each depth wins.
func ShortestPath(view *FilteredView, source, target int64) ([]int64, error) {
	if !view.Has(source) || !view.Has(target) {
		return nil, ErrNodeNotFound
	}
	path, ok := bfsPath(view, source, target, nil, nil)
	if !ok {
		return nil, ErrNoPath
	}
	return path, nil
}

// bfsPath runs BFS from source to target, skipping bannedNodes and
// bannedEdges (both optional). Returns the path and whether target was
// reached. Used directly by ShortestPath and with restrictions by the
// k-shortest spur search.
func bfsPath(view *FilteredView, source, target int64, bannedNodes map[int64]struct{}, bannedEdges map[[2]int64]struct{}) ([]int64, bool) {
	if _, banned := bannedNodes[source]; banned {
		return nil, false
	}
	if source == target {
		return []int64{source}, true
	}

	parent := map[int64]int64{source: source}
	queue := []int64{source}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range view.Neighbors(cur) {
			if _, seen := parent[next]; seen {
				continue
			}
			if _, banned := bannedNodes[next]; banned {
				continue
			}
			if bannedEdges != nil {
				a, b := CanonicalEdge(cur, next)
				if _, banned := bannedEdges[[2]int64{a, b}]; banned {
					continue
				}
			}
			parent[next] = cur
			if next == target {
				return reconstruct(parent, source, target), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func reconstruct(parent map[int64]int64, source, target int64) []int64 {
	var rev []int64
	for cur := target; ; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == source {
			break
		}
	}
	path := make([]int64, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
