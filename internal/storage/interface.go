package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphlink/graphlink-go/internal/graph"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("storage: not found")

// ProfileUpsert is one profile observation to merge into the store.
type ProfileUpsert struct {
	Key  string // canonical identity key
	Name string // display name, last write wins
}

// Store is the durable graph store: profiles keyed by identity key
// plus the symmetric friendship relation. Upserts are idempotent and
// safe for concurrent callers; the unique key constraint serializes
// same-key races inside the database.
type Store interface {
	// UpsertProfile creates the profile if absent, otherwise updates
	// its display name (last write wins), and returns the stable id.
	UpsertProfile(ctx context.Context, key, name string) (int64, error)

	// UpsertProfiles merges a batch of observations in one
	// transaction with the same per-row semantics as UpsertProfile.
	UpsertProfiles(ctx context.Context, profiles []ProfileUpsert) error

	// LookupID resolves an identity key; ErrNotFound when absent.
	LookupID(ctx context.Context, key string) (int64, error)

	// LookupIDs resolves many keys at once. Missing keys are simply
	// absent from the result map.
	LookupIDs(ctx context.Context, keys []string) (map[string]int64, error)

	// UpsertFriendship records an undirected edge, stored once in
	// (min,max) order. Self-loops are a no-op.
	UpsertFriendship(ctx context.Context, a, b int64) error

	// UpsertFriendships is the batch form, one transaction.
	UpsertFriendships(ctx context.Context, pairs [][2]int64) error

	// LoadSnapshot reads the full graph for query-time use.
	LoadSnapshot(ctx context.Context) (*graph.Snapshot, error)

	// Close releases the underlying connection.
	Close() error
}

// Open constructs a Store for the configured backend type. For sqlite
// the dsn is a file path; for postgres a connection string.
func Open(backend, dsn string, logger *logrus.Logger) (Store, error) {
	switch backend {
	case "sqlite", "":
		return NewSQLiteStore(dsn, logger)
	case "postgres":
		return NewPostgresStore(dsn, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
