// Package export serializes query results and full-graph listings for
// downstream tooling: a node/edge subgraph as JSON for the interactive
// viewer, and node/edge CSVs in the column layout Gephi imports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/graphlink/graphlink-go/internal/graph"
)

// Node tags: how a subgraph node relates to the query that produced it.
const (
	TypeSource       = "source"
	TypeTarget       = "target"
	TypeIntermediate = "intermediate"
)

// Node is one exported profile.
type Node struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Edge is one exported friendship.
type Edge struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// Subgraph is the JSON export shape consumed by the viewer.
type Subgraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildSubgraph flattens a path union into the export shape, tagging
// each node by membership against the query's source and targets.
func BuildSubgraph(snap *graph.Snapshot, union *graph.Union, sourceID int64, targetIDs []int64) *Subgraph {
	targets := make(map[int64]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		targets[id] = struct{}{}
	}

	sub := &Subgraph{
		Nodes: make([]Node, 0, len(union.Nodes)),
		Edges: make([]Edge, 0, len(union.Edges)),
	}

	for _, id := range union.SortedNodes() {
		nodeType := TypeIntermediate
		if id == sourceID {
			nodeType = TypeSource
		} else if _, ok := targets[id]; ok {
			nodeType = TypeTarget
		}
		sub.Nodes = append(sub.Nodes, Node{
			ID:    id,
			Label: snap.Name(id),
			URL:   snap.Key(id),
			Type:  nodeType,
		})
	}

	for _, e := range union.SortedEdges() {
		sub.Edges = append(sub.Edges, Edge{Source: e[0], Target: e[1]})
	}
	return sub
}

// WriteJSON writes the subgraph to path.
func (s *Subgraph) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("encode subgraph: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write subgraph: %w", err)
	}
	return nil
}

// Gephi export filenames.
const (
	GephiNodesFilename = "gephi_node_list.csv"
	GephiEdgesFilename = "gephi_edge_list.csv"
)

// WriteGephiFiles dumps the full snapshot as Gephi node and edge
// lists, identity keys as ids and display names as labels. Returns the
// written paths.
func WriteGephiFiles(snap *graph.Snapshot, dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create export directory: %w", err)
	}

	nodesPath := filepath.Join(dir, GephiNodesFilename)
	if err := writeCSV(nodesPath, []string{"Id", "Label"}, func(w *csv.Writer) error {
		for _, id := range snap.Nodes() {
			if err := w.Write([]string{snap.Key(id), snap.Name(id)}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return "", "", fmt.Errorf("write node list: %w", err)
	}

	edgesPath := filepath.Join(dir, GephiEdgesFilename)
	if err := writeCSV(edgesPath, []string{"Source", "Target"}, func(w *csv.Writer) error {
		for _, e := range snap.Edges() {
			if err := w.Write([]string{snap.Key(e[0]), snap.Key(e[1])}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return "", "", fmt.Errorf("write edge list: %w", err)
	}

	return nodesPath, edgesPath, nil
}

func writeCSV(path string, header []string, rows func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
