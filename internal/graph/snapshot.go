// Package graph holds the in-memory social graph snapshot and the
// path-query engine that runs over filtered views of it.
package graph

import "sort"

// Profile is one resolved node of the snapshot.
type Profile struct {
	ID   int64
	Key  string // canonical identity key
	Name string
}

// Snapshot is a read-only, full-graph projection of the store:
// adjacency plus id<->key<->name lookups. Adjacency lists are kept
// sorted ascending so traversal order, and therefore shortest-path
// tie-breaking, is deterministic.
type Snapshot struct {
	adj       map[int64][]int64
	keys      map[int64]string
	names     map[int64]string
	ids       map[string]int64
	edgeCount int
}

// NewSnapshot builds a snapshot from profile rows and friendship
// edges. Duplicate and reversed edges collapse; self-loops are dropped.
func NewSnapshot(profiles []Profile, edges [][2]int64) *Snapshot {
	s := &Snapshot{
		adj:   make(map[int64][]int64, len(profiles)),
		keys:  make(map[int64]string, len(profiles)),
		names: make(map[int64]string, len(profiles)),
		ids:   make(map[string]int64, len(profiles)),
	}

	for _, p := range profiles {
		s.keys[p.ID] = p.Key
		s.names[p.ID] = p.Name
		s.ids[p.Key] = p.ID
		if _, ok := s.adj[p.ID]; !ok {
			s.adj[p.ID] = nil
		}
	}

	seen := make(map[[2]int64]struct{}, len(edges))
	for _, e := range edges {
		a, b := CanonicalEdge(e[0], e[1])
		if a == b {
			continue
		}
		if _, dup := seen[[2]int64{a, b}]; dup {
			continue
		}
		seen[[2]int64{a, b}] = struct{}{}
		s.adj[a] = append(s.adj[a], b)
		s.adj[b] = append(s.adj[b], a)
		s.edgeCount++
	}

	for id := range s.adj {
		sort.Slice(s.adj[id], func(i, j int) bool { return s.adj[id][i] < s.adj[id][j] })
	}
	return s
}

// CanonicalEdge returns the endpoints in (min,max) order, the single
// stored orientation of every friendship.
func CanonicalEdge(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// NodeCount returns the number of profiles in the snapshot.
func (s *Snapshot) NodeCount() int { return len(s.keys) }

// EdgeCount returns the number of friendships in the snapshot.
func (s *Snapshot) EdgeCount() int { return s.edgeCount }

// Has reports whether id is a node of the snapshot.
func (s *Snapshot) Has(id int64) bool {
	_, ok := s.keys[id]
	return ok
}

// IDForKey resolves a canonical identity key to its internal id.
func (s *Snapshot) IDForKey(key string) (int64, bool) {
	id, ok := s.ids[key]
	return id, ok
}

// Key returns the identity key of id, or "" if unknown.
func (s *Snapshot) Key(id int64) string { return s.keys[id] }

// Name returns the display name of id, or "" if unknown.
func (s *Snapshot) Name(id int64) string { return s.names[id] }

// Neighbors returns the sorted adjacency list of id. Callers must not
// mutate the returned slice.
func (s *Snapshot) Neighbors(id int64) []int64 { return s.adj[id] }

// Degree returns the number of friendships incident to id.
func (s *Snapshot) Degree(id int64) int { return len(s.adj[id]) }

// Nodes returns all node ids in ascending order.
func (s *Snapshot) Nodes() []int64 {
	nodes := make([]int64, 0, len(s.keys))
	for id := range s.keys {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Edges returns all friendships in canonical order, sorted for
// deterministic iteration.
func (s *Snapshot) Edges() [][2]int64 {
	edges := make([][2]int64, 0, s.edgeCount)
	for id, nbrs := range s.adj {
		for _, n := range nbrs {
			if id < n {
				edges = append(edges, [2]int64{id, n})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}
