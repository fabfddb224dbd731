package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	apperrors "github.com/graphlink/graphlink-go/internal/errors"
	"github.com/graphlink/graphlink-go/internal/graph"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore implements the graph store on a local SQLite file, the
// default backend.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.StoreErrorf(err, "create database directory %s", dir)
	}

	// WAL for concurrent ingestion workers, busy timeout so parallel
	// upserts wait out the single writer instead of failing. DSN
	// parameters so every pooled connection gets the same pragmas.
	dsn := path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, apperrors.StoreError(err, "connect to sqlite")
	}

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, apperrors.StoreError(err, "init schema")
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY,
		identity_key TEXT NOT NULL UNIQUE,
		display_name TEXT
	);

	CREATE TABLE IF NOT EXISTS friendships (
		profile_id_1 INTEGER NOT NULL,
		profile_id_2 INTEGER NOT NULL,
		PRIMARY KEY (profile_id_1, profile_id_2),
		FOREIGN KEY (profile_id_1) REFERENCES profiles (id),
		FOREIGN KEY (profile_id_2) REFERENCES profiles (id)
	);

	CREATE INDEX IF NOT EXISTS idx_friendships_second ON friendships(profile_id_2);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsertProfile = `
	INSERT INTO profiles (identity_key, display_name) VALUES (?, ?)
	ON CONFLICT(identity_key) DO UPDATE SET display_name = excluded.display_name
`

func (s *SQLiteStore) UpsertProfile(ctx context.Context, key, name string) (int64, error) {
	if _, err := s.db.ExecContext(ctx, sqliteUpsertProfile, key, name); err != nil {
		return 0, apperrors.StoreErrorf(err, "upsert profile %s", key)
	}
	return s.LookupID(ctx, key)
}

func (s *SQLiteStore) UpsertProfiles(ctx context.Context, profiles []ProfileUpsert) error {
	if len(profiles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.StoreError(err, "begin profile batch")
	}
	defer tx.Rollback()

	for _, p := range profiles {
		if _, err := tx.ExecContext(ctx, sqliteUpsertProfile, p.Key, p.Name); err != nil {
			return apperrors.StoreErrorf(err, "upsert profile %s", p.Key)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.StoreError(err, "commit profile batch")
	}
	return nil
}

func (s *SQLiteStore) LookupID(ctx context.Context, key string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM profiles WHERE identity_key = ?`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, apperrors.StoreErrorf(err, "lookup profile %s", key)
	}
	return id, nil
}

func (s *SQLiteStore) LookupIDs(ctx context.Context, keys []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return ids, nil
	}

	query, args, err := sqlx.In(`SELECT identity_key, id FROM profiles WHERE identity_key IN (?)`, keys)
	if err != nil {
		return nil, apperrors.StoreError(err, "build key lookup")
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, apperrors.StoreError(err, "lookup profile keys")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var id int64
		if err := rows.Scan(&key, &id); err != nil {
			return nil, apperrors.StoreError(err, "scan profile key")
		}
		ids[key] = id
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreError(err, "iterate profile keys")
	}
	return ids, nil
}

const sqliteUpsertFriendship = `
	INSERT OR IGNORE INTO friendships (profile_id_1, profile_id_2) VALUES (?, ?)
`

func (s *SQLiteStore) UpsertFriendship(ctx context.Context, a, b int64) error {
	if a == b {
		return nil
	}
	lo, hi := graph.CanonicalEdge(a, b)
	if _, err := s.db.ExecContext(ctx, sqliteUpsertFriendship, lo, hi); err != nil {
		return apperrors.StoreErrorf(err, "upsert friendship %d-%d", lo, hi)
	}
	return nil
}

func (s *SQLiteStore) UpsertFriendships(ctx context.Context, pairs [][2]int64) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.StoreError(err, "begin friendship batch")
	}
	defer tx.Rollback()

	for _, pair := range pairs {
		if pair[0] == pair[1] {
			continue
		}
		lo, hi := graph.CanonicalEdge(pair[0], pair[1])
		if _, err := tx.ExecContext(ctx, sqliteUpsertFriendship, lo, hi); err != nil {
			return apperrors.StoreErrorf(err, "upsert friendship %d-%d", lo, hi)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.StoreError(err, "commit friendship batch")
	}
	return nil
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*graph.Snapshot, error) {
	return loadSnapshot(ctx, s.db)
}

// loadSnapshot reads the profile and friendship tables into a graph
// snapshot. Shared by both backends; the queries are placeholder-free.
func loadSnapshot(ctx context.Context, db *sqlx.DB) (*graph.Snapshot, error) {
	type profileRow struct {
		ID   int64          `db:"id"`
		Key  string         `db:"identity_key"`
		Name sql.NullString `db:"display_name"`
	}

	var rows []profileRow
	if err := db.SelectContext(ctx, &rows, `SELECT id, identity_key, display_name FROM profiles`); err != nil {
		return nil, apperrors.StoreError(err, "load profiles")
	}

	profiles := make([]graph.Profile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, graph.Profile{ID: r.ID, Key: r.Key, Name: r.Name.String})
	}

	type edgeRow struct {
		A int64 `db:"profile_id_1"`
		B int64 `db:"profile_id_2"`
	}

	var edgeRows []edgeRow
	if err := db.SelectContext(ctx, &edgeRows, `SELECT profile_id_1, profile_id_2 FROM friendships`); err != nil {
		return nil, apperrors.StoreError(err, "load friendships")
	}

	edges := make([][2]int64, 0, len(edgeRows))
	for _, e := range edgeRows {
		edges = append(edges, [2]int64{e.A, e.B})
	}

	return graph.NewSnapshot(profiles, edges), nil
}
