package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCredentialStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileCredentialStore(path)

	assert.Empty(t, store.Get())

	require.NoError(t, store.Set("sess-abc"))
	assert.Equal(t, "sess-abc", store.Get())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Get())
}

func TestFileCredentialStore_ClearMissingIsNoop(t *testing.T) {
	store := NewFileCredentialStore(filepath.Join(t.TempDir(), "never-written"))
	assert.NoError(t, store.Clear())
}

func TestMemoryCredentialStore(t *testing.T) {
	store := NewMemoryCredentialStore()

	assert.Empty(t, store.Get())
	require.NoError(t, store.Set("sess-1"))
	assert.Equal(t, "sess-1", store.Get())
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Get())
}
