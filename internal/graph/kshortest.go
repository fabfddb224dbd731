package graph

import (
	"container/heap"
	"context"
	"strconv"
	"strings"
)

// PathIterator lazily enumerates simple paths between two nodes in
// non-decreasing length order (Yen's algorithm over unweighted BFS).
//
// Each Next call computes at most one new path, so a consumer that
// stops after k results never pays for the combinatorial tail:
//
//	it := graph.NewKShortest(ctx, view, s, t)
//	for it.Next() && len(paths) < k {
//	    paths = append(paths, it.Path())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Exhaustion (fewer simple paths than requested) ends iteration
// normally with Err() == nil.
type PathIterator struct {
	ctx     context.Context
	view    *FilteredView
	source  int64
	target  int64
	found   [][]int64
	pending *candidateHeap
	queued  map[string]struct{}
	current []int64
	err     error
	done    bool
}

// NewKShortest prepares a lazy path enumeration from source to target.
// No work happens until the first Next call. The context cancels an
// in-progress enumeration; a cancelled iterator stops and reports the
// context error through Err.
func NewKShortest(ctx context.Context, view *FilteredView, source, target int64) *PathIterator {
	it := &PathIterator{
		ctx:     ctx,
		view:    view,
		source:  source,
		target:  target,
		pending: &candidateHeap{},
		queued:  make(map[string]struct{}),
	}
	if !view.Has(source) || !view.Has(target) {
		it.err = ErrNodeNotFound
		it.done = true
	}
	return it
}

// Next advances to the next shortest simple path. It returns false
// when no further path exists or an error occurred; check Err.
func (it *PathIterator) Next() bool {
	if it.done {
		return false
	}
	if err := it.ctx.Err(); err != nil {
		it.err = err
		it.done = true
		return false
	}

	// First call: the plain shortest path seeds the enumeration.
	if len(it.found) == 0 {
		path, ok := bfsPath(it.view, it.source, it.target, nil, nil)
		if !ok {
			it.done = true
			return false
		}
		return it.accept(path)
	}

	it.spurCandidates(it.found[len(it.found)-1])

	if it.err != nil || it.pending.Len() == 0 {
		it.done = true
		return false
	}
	return it.accept(heap.Pop(it.pending).(candidate).path)
}

// Path returns the path produced by the last successful Next call.
func (it *PathIterator) Path() []int64 { return it.current }

// Err returns the error that stopped iteration, if any. Exhausting all
// simple paths is not an error.
func (it *PathIterator) Err() error { return it.err }

func (it *PathIterator) accept(path []int64) bool {
	it.found = append(it.found, path)
	it.current = path
	return true
}

// spurCandidates derives new candidate paths from the most recently
// accepted path: for every prefix, ban the edges other accepted paths
// take out of that prefix plus the prefix's interior nodes, and BFS a
// spur from the deviation point to the target.
func (it *PathIterator) spurCandidates(prev []int64) {
	for i := 0; i < len(prev)-1; i++ {
		select {
		case <-it.ctx.Done():
			it.err = it.ctx.Err()
			return
		default:
		}

		spur := prev[i]
		root := prev[:i+1]

		bannedEdges := make(map[[2]int64]struct{})
		for _, p := range it.found {
			if len(p) > i+1 && samePath(p[:i+1], root) {
				a, b := CanonicalEdge(p[i], p[i+1])
				bannedEdges[[2]int64{a, b}] = struct{}{}
			}
		}
		bannedNodes := make(map[int64]struct{}, i)
		for _, id := range root[:i] {
			bannedNodes[id] = struct{}{}
		}

		spurPath, ok := bfsPath(it.view, spur, it.target, bannedNodes, bannedEdges)
		if !ok {
			continue
		}

		full := make([]int64, 0, i+len(spurPath))
		full = append(full, root[:i]...)
		full = append(full, spurPath...)

		sig := pathSignature(full)
		if _, dup := it.queued[sig]; dup {
			continue
		}
		it.queued[sig] = struct{}{}
		heap.Push(it.pending, candidate{path: full})
	}
}

func samePath(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func pathSignature(path []int64) string {
	var sb strings.Builder
	for i, id := range path {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.FormatInt(id, 10))
	}
	return sb.String()
}

type candidate struct {
	path []int64
}

// candidateHeap orders candidates by length, then lexicographically by
// node ids so enumeration order is deterministic for a fixed graph.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	a, b := h[i].path, h[j].path
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
