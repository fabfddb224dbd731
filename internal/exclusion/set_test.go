package exclusion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_AddRemoveContains(t *testing.T) {
	s := NewSet()

	assert.True(t, s.Add("https://facebook.com/a"))
	assert.True(t, s.Add("https://facebook.com/b"))
	assert.False(t, s.Add("https://facebook.com/a"), "duplicate add must be a no-op")

	assert.True(t, s.Contains("https://facebook.com/a"))
	assert.Equal(t, []string{"https://facebook.com/a", "https://facebook.com/b"}, s.Keys())

	assert.True(t, s.Remove("https://facebook.com/a"))
	assert.False(t, s.Remove("https://facebook.com/a"))
	assert.False(t, s.Contains("https://facebook.com/a"))
	assert.Equal(t, []string{"https://facebook.com/b"}, s.Keys())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")

	s := NewSet()
	s.Add("https://facebook.com/b")
	s.Add("https://facebook.com/a")
	require.NoError(t, s.Save(path))

	loaded := Load(path)
	// Insertion order survives the round trip.
	assert.Equal(t, []string{"https://facebook.com/b", "https://facebook.com/a"}, loaded.Keys())
}

func TestLoad_MissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Equal(t, 0, s.Len())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := Load(path)
	assert.Equal(t, 0, s.Len())
}

func TestSave_EmptySetWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	require.NoError(t, NewSet().Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var keys []string
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Empty(t, keys)
}

// Save must replace the file in one rename; a pre-existing file is
// either fully old or fully new, and no temp files are left behind.
func TestSave_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blacklist.json")

	first := NewSet()
	first.Add("https://facebook.com/a")
	require.NoError(t, first.Save(path))

	second := NewSet()
	second.Add("https://facebook.com/b")
	require.NoError(t, second.Save(path))

	assert.Equal(t, []string{"https://facebook.com/b"}, Load(path).Keys())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may remain after save")
}
