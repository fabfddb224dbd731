package graph

// FilteredView is an ephemeral projection of a Snapshot with a set of
// excluded nodes (and their incident edges) hidden. It never mutates
// the underlying snapshot and is rebuilt per query session, since the
// exclusion set may change between sessions.
type FilteredView struct {
	snap     *Snapshot
	excluded map[int64]struct{}
}

// NewFilteredView wraps snap, hiding the given node ids.
func NewFilteredView(snap *Snapshot, excludedIDs []int64) *FilteredView {
	ex := make(map[int64]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		ex[id] = struct{}{}
	}
	return &FilteredView{snap: snap, excluded: ex}
}

// FilterByKeys builds a view hiding the nodes whose identity keys
// appear in excludedKeys. Keys not present in the snapshot are
// ignored: excluding someone the graph has never seen is a no-op.
func (s *Snapshot) FilterByKeys(excludedKeys map[string]struct{}) *FilteredView {
	ids := make([]int64, 0, len(excludedKeys))
	for key := range excludedKeys {
		if id, ok := s.IDForKey(key); ok {
			ids = append(ids, id)
		}
	}
	return NewFilteredView(s, ids)
}

// Snapshot returns the underlying full snapshot.
func (v *FilteredView) Snapshot() *Snapshot { return v.snap }

// Excluded reports whether id is hidden by this view.
func (v *FilteredView) Excluded(id int64) bool {
	_, ok := v.excluded[id]
	return ok
}

// Has reports whether id is a visible node of the view.
func (v *FilteredView) Has(id int64) bool {
	if _, hidden := v.excluded[id]; hidden {
		return false
	}
	return v.snap.Has(id)
}

// Neighbors returns the visible neighbors of id in ascending order.
func (v *FilteredView) Neighbors(id int64) []int64 {
	all := v.snap.Neighbors(id)
	if len(v.excluded) == 0 {
		return all
	}
	nbrs := make([]int64, 0, len(all))
	for _, n := range all {
		if _, hidden := v.excluded[n]; !hidden {
			nbrs = append(nbrs, n)
		}
	}
	return nbrs
}

// NodeCount returns the number of visible nodes.
func (v *FilteredView) NodeCount() int {
	return v.snap.NodeCount() - len(v.excluded)
}
