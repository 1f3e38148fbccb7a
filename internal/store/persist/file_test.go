// internal/store/persist/file_test.go
package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("cart", payload{Name: "widget", Count: 3}))

	var restored payload
	require.NoError(t, store.Load("cart", &restored))
	assert.Equal(t, "widget", restored.Name)
	assert.Equal(t, 3, restored.Count)
}

func TestFileStoreLoadMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var restored payload
	assert.ErrorIs(t, store.Load("missing", &restored), ErrNotFound)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("cart", payload{Count: 1}))
	require.NoError(t, store.Save("cart", payload{Count: 2}))

	var restored payload
	require.NoError(t, store.Load("cart", &restored))
	assert.Equal(t, 2, restored.Count)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("cart", payload{Count: 1}))
	require.NoError(t, store.Delete("cart"))

	var restored payload
	assert.ErrorIs(t, store.Load("cart", &restored), ErrNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Save("notifications", payload{Name: "n", Count: 5}))

	var restored payload
	require.NoError(t, store.Load("notifications", &restored))
	assert.Equal(t, 5, restored.Count)

	require.NoError(t, store.Delete("notifications"))
	assert.ErrorIs(t, store.Load("notifications", &restored), ErrNotFound)
}
