package main

import (
	"context"
	"fmt"

	"github.com/graphlink/graphlink-go/internal/exclusion"
	"github.com/graphlink/graphlink-go/internal/graph"
	"github.com/graphlink/graphlink-go/internal/query"
	"github.com/graphlink/graphlink-go/internal/storage"
)

// loadSnapshot opens the store, reads the full graph, and closes the
// store again; queries only need the in-memory snapshot.
func loadSnapshot(ctx context.Context) (*graph.Snapshot, error) {
	store, err := storage.Open(cfg.Storage.Type, cfg.Storage.DSN(), logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	snap, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	logger.WithField("nodes", snap.NodeCount()).
		WithField("edges", snap.EdgeCount()).
		Debug("Graph loaded")
	return snap, nil
}

// loadQuerySession builds a fresh session: snapshot plus the exclusion
// list as it exists right now. The list is re-read every time so edits
// between queries in one run take effect.
func loadQuerySession(ctx context.Context) (*query.Session, error) {
	snap, err := loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	excluded := exclusion.Load(cfg.Exclusion.File)
	if excluded.Len() > 0 {
		logger.WithField("excluded", excluded.Len()).Debug("Exclusion list applied")
	}
	return query.NewSession(snap, excluded), nil
}

// describe formats one path node for display.
func describe(snap *graph.Snapshot, id int64) string {
	name := snap.Name(id)
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s  %s", name, snap.Key(id))
}
