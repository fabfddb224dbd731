package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "graphlink.sqlite"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertProfile_StableIDAndLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := "https://facebook.com/ann.example"
	id1, err := store.UpsertProfile(ctx, key, "Ann")
	require.NoError(t, err)

	id2, err := store.UpsertProfile(ctx, key, "Ann Example")
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "same key must keep the same id")

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.NodeCount())
	assert.Equal(t, "Ann Example", snap.Name(id1))
}

func TestUpsertProfiles_Batch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpsertProfiles(ctx, []ProfileUpsert{
		{Key: "https://facebook.com/a", Name: "A"},
		{Key: "https://facebook.com/b", Name: "B"},
		{Key: "https://facebook.com/a", Name: "A2"}, // later row wins
	})
	require.NoError(t, err)

	ids, err := store.LookupIDs(ctx, []string{
		"https://facebook.com/a",
		"https://facebook.com/b",
		"https://facebook.com/missing",
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A2", snap.Name(ids["https://facebook.com/a"]))
}

func TestLookupID_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.LookupID(context.Background(), "https://facebook.com/nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertFriendship_CanonicalAndIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.UpsertProfile(ctx, "https://facebook.com/a", "A")
	require.NoError(t, err)
	b, err := store.UpsertProfile(ctx, "https://facebook.com/b", "B")
	require.NoError(t, err)

	// Both orientations and a repeat collapse to one stored edge.
	require.NoError(t, store.UpsertFriendship(ctx, a, b))
	require.NoError(t, store.UpsertFriendship(ctx, b, a))
	require.NoError(t, store.UpsertFriendship(ctx, a, b))

	// Self-loop is a no-op.
	require.NoError(t, store.UpsertFriendship(ctx, a, a))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.EdgeCount())
	assert.Equal(t, [][2]int64{{a, b}}, snap.Edges())
}

func TestUpsertFriendships_BatchSkipsSelfLoops(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.UpsertProfile(ctx, "https://facebook.com/a", "A")
	b, _ := store.UpsertProfile(ctx, "https://facebook.com/b", "B")
	c, _ := store.UpsertProfile(ctx, "https://facebook.com/c", "C")

	err := store.UpsertFriendships(ctx, [][2]int64{
		{a, b}, {a, a}, {c, a},
	})
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.EdgeCount())
}

// Concurrent upserts of the same key must not create duplicate rows:
// the unique constraint is the serialization point.
func TestUpsertProfile_ConcurrentSameKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("Name %d", i)
		g.Go(func() error {
			_, err := store.UpsertProfile(gctx, "https://facebook.com/shared", name)
			return err
		})
	}
	require.NoError(t, g.Wait())

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.NodeCount())
}

func TestLoadSnapshot_Empty(t *testing.T) {
	store := newTestStore(t)
	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.NodeCount())
	assert.Equal(t, 0, snap.EdgeCount())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("cassandra", "", logrus.New())
	assert.Error(t, err)
}
