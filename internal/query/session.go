// Package query runs path queries over a filtered view of the graph,
// resolving raw profile references and enforcing the exclusion list at
// the endpoints. A Session is built fresh per query session so edits
// to the exclusion list between sessions always take effect.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphlink/graphlink-go/internal/exclusion"
	"github.com/graphlink/graphlink-go/internal/graph"
	"github.com/graphlink/graphlink-go/internal/identity"
)

// ErrEndpointExcluded is returned when a query names an excluded
// profile as an endpoint. Distinct from ErrNoPath: the query is
// rejected, not answered.
var ErrEndpointExcluded = errors.New("query: endpoint is on the exclusion list")

// ErrUnknownProfile is returned when an endpoint reference normalizes
// fine but the profile has never been ingested.
var ErrUnknownProfile = errors.New("query: profile not in graph")

// Session binds a graph snapshot to an exclusion set for one query
// session. It is read-only and safe for concurrent queries.
type Session struct {
	snap     *graph.Snapshot
	view     *graph.FilteredView
	excluded map[string]struct{}
}

// NewSession projects the exclusion set onto the snapshot.
func NewSession(snap *graph.Snapshot, excluded *exclusion.Set) *Session {
	keys := excluded.KeySet()
	return &Session{
		snap:     snap,
		view:     snap.FilterByKeys(keys),
		excluded: keys,
	}
}

// Resolve normalizes a raw endpoint reference and maps it to an
// internal id. Exclusion is checked before presence: an excluded key
// is never a valid endpoint, whether or not it was ever ingested.
func (s *Session) Resolve(ref string) (int64, error) {
	key, err := identity.Normalize(ref)
	if err != nil {
		return 0, err
	}
	if _, ok := s.excluded[key]; ok {
		return 0, fmt.Errorf("%w: %s", ErrEndpointExcluded, key)
	}
	id, ok := s.snap.IDForKey(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProfile, key)
	}
	return id, nil
}

// ShortestPath returns one shortest introduction chain between two raw
// references. graph.ErrNoPath passes through as the expected
// no-connection outcome.
func (s *Session) ShortestPath(sourceRef, targetRef string) ([]int64, error) {
	source, err := s.Resolve(sourceRef)
	if err != nil {
		return nil, err
	}
	target, err := s.Resolve(targetRef)
	if err != nil {
		return nil, err
	}
	return graph.ShortestPath(s.view, source, target)
}

// KShortestPaths returns up to k alternative simple chains in
// non-decreasing length order, consuming the lazy enumeration only as
// far as needed. Fewer than k paths is not an error.
func (s *Session) KShortestPaths(ctx context.Context, sourceRef, targetRef string, k int) ([][]int64, error) {
	source, err := s.Resolve(sourceRef)
	if err != nil {
		return nil, err
	}
	target, err := s.Resolve(targetRef)
	if err != nil {
		return nil, err
	}

	it := graph.NewKShortest(ctx, s.view, source, target)
	var paths [][]int64
	for len(paths) < k && it.Next() {
		paths = append(paths, it.Path())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ConnectResult is a multi-target union plus the resolved endpoints,
// which the exporter needs for node tagging.
type ConnectResult struct {
	SourceID  int64
	TargetIDs []int64
	Union     *graph.Union
}

// Connect computes the path-union subgraph joining a source to every
// target and the targets to each other. Duplicate target references
// collapse; pairs with no path are skipped inside the union.
func (s *Session) Connect(sourceRef string, targetRefs []string) (*ConnectResult, error) {
	source, err := s.Resolve(sourceRef)
	if err != nil {
		return nil, err
	}

	var targets []int64
	seen := map[int64]struct{}{}
	for _, ref := range targetRefs {
		id, err := s.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}

	union, err := graph.MultiTargetUnion(s.view, source, targets)
	if err != nil {
		return nil, err
	}
	return &ConnectResult{SourceID: source, TargetIDs: targets, Union: union}, nil
}

// Snapshot exposes the underlying snapshot for display lookups
// (id -> name, id -> identity key).
func (s *Session) Snapshot() *graph.Snapshot { return s.snap }
