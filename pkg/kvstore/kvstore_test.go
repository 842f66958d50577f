package kvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("missing")
	assert.Error(t, err)

	require.NoError(t, store.Write("abc", []byte("payload")))
	data, err := store.Read("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, store.Write("abc", []byte("replaced")))
	data, err = store.Read("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), data)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Write("abc", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "abc.json"))
	assert.NoError(t, err)
}

func TestFileStoreEntries(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write("one", []byte("1")))
	require.NoError(t, store.Write("two", []byte("2")))

	// non-entry files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	keys := map[string]bool{}
	for _, entry := range entries {
		keys[entry.Key] = true
		assert.WithinDuration(t, time.Now(), entry.ModTime, time.Minute)
	}
	assert.True(t, keys["one"])
	assert.True(t, keys["two"])
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write("abc", []byte("x")))
	require.NoError(t, store.Delete("abc"))

	_, err = store.Read("abc")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Read("missing")
	assert.Error(t, err)

	require.NoError(t, store.Write("abc", []byte("x")))
	data, err := store.Read("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
	assert.Equal(t, 1, store.Len())

	past := time.Now().Add(-48 * time.Hour)
	store.SetModTime("abc", past)
	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, past, entries[0].ModTime)

	require.NoError(t, store.Delete("abc"))
	assert.Equal(t, 0, store.Len())
}
