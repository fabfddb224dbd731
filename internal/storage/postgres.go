package storage

import (
	"context"
	"database/sql"

	apperrors "github.com/graphlink/graphlink-go/internal/errors"
	"github.com/graphlink/graphlink-go/internal/graph"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgresStore implements the graph store on PostgreSQL, for setups
// where several operators share one graph.
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore connects with the given DSN and ensures the schema.
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, apperrors.StoreError(err, "connect to postgres")
	}

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, apperrors.StoreError(err, "init schema")
	}
	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id BIGSERIAL PRIMARY KEY,
		identity_key TEXT NOT NULL UNIQUE,
		display_name TEXT
	);

	CREATE TABLE IF NOT EXISTS friendships (
		profile_id_1 BIGINT NOT NULL REFERENCES profiles (id),
		profile_id_2 BIGINT NOT NULL REFERENCES profiles (id),
		PRIMARY KEY (profile_id_1, profile_id_2)
	);

	CREATE INDEX IF NOT EXISTS idx_friendships_second ON friendships(profile_id_2);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const pgUpsertProfile = `
	INSERT INTO profiles (identity_key, display_name) VALUES ($1, $2)
	ON CONFLICT (identity_key) DO UPDATE SET display_name = EXCLUDED.display_name
	RETURNING id
`

func (s *PostgresStore) UpsertProfile(ctx context.Context, key, name string) (int64, error) {
	var id int64
	if err := s.db.QueryRowxContext(ctx, pgUpsertProfile, key, name).Scan(&id); err != nil {
		return 0, apperrors.StoreErrorf(err, "upsert profile %s", key)
	}
	return id, nil
}

func (s *PostgresStore) UpsertProfiles(ctx context.Context, profiles []ProfileUpsert) error {
	if len(profiles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.StoreError(err, "begin profile batch")
	}
	defer tx.Rollback()

	for _, p := range profiles {
		var id int64
		if err := tx.QueryRowxContext(ctx, pgUpsertProfile, p.Key, p.Name).Scan(&id); err != nil {
			return apperrors.StoreErrorf(err, "upsert profile %s", p.Key)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.StoreError(err, "commit profile batch")
	}
	return nil
}

func (s *PostgresStore) LookupID(ctx context.Context, key string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM profiles WHERE identity_key = $1`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, apperrors.StoreErrorf(err, "lookup profile %s", key)
	}
	return id, nil
}

func (s *PostgresStore) LookupIDs(ctx context.Context, keys []string) (map[string]int64, error) {
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

const pgUpsertFriendship = `
	INSERT INTO friendships (profile_id_1, profile_id_2) VALUES ($1, $2)
	ON CONFLICT DO NOTHING
`

func (s *PostgresStore) UpsertFriendship(ctx context.Context, a, b int64) error {
	if a == b {
		return nil
	}
	lo, hi := graph.CanonicalEdge(a, b)
	if _, err := s.db.ExecContext(ctx, pgUpsertFriendship, lo, hi); err != nil {
		return apperrors.StoreErrorf(err, "upsert friendship %d-%d", lo, hi)
	}
	return nil
}

func (s *PostgresStore) UpsertFriendships(ctx context.Context, pairs [][2]int64) error {
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
		if _, err := tx.ExecContext(ctx, pgUpsertFriendship, lo, hi); err != nil {
			return apperrors.StoreErrorf(err, "upsert friendship %d-%d", lo, hi)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.StoreError(err, "commit friendship batch")
	}
	return nil
}

func (s *PostgresStore) LoadSnapshot(ctx context.Context) (*graph.Snapshot, error) {
	return loadSnapshot(ctx, s.db)
}
