package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func fileStore(t *testing.T) *TokenStore {
	t.Helper()
	return &TokenStore{Path: filepath.Join(t.TempDir(), "credential.json")}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := fileStore(t)

	saved, err := store.Save(&TokenResponse{
		AccessToken:  "tok1",
		RefreshToken: "ref1",
		TokenType:    "Bearer",
		Scope:        "openid profile email",
		ExpiresIn:    3600,
	})
	require.NoError(t, err)

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok1", loaded.AccessToken)
	assert.Equal(t, "ref1", loaded.RefreshToken)
	assert.Equal(t, "Bearer", loaded.TokenType)
	assert.Equal(t, "openid profile email", loaded.Scope)
	assert.WithinDuration(t, saved.ExpiresAt, loaded.ExpiresAt, time.Second)
	assert.WithinDuration(t, saved.CreatedAt, loaded.CreatedAt, time.Second)
}

func TestStoreSaveNormalizes(t *testing.T) {
	store := fileStore(t)

	_, err := store.Save(&TokenResponse{AccessToken: "tok1"})
	require.NoError(t, err)

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "Bearer", loaded.TokenType)
	assert.True(t, loaded.ExpiresAt.IsZero())
	assert.False(t, store.IsExpired())
}

func TestStoreLoadFailsSoft(t *testing.T) {
	store := fileStore(t)

	cred, ok := store.Load()
	assert.Nil(t, cred)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path), 0o700))
	require.NoError(t, os.WriteFile(store.Path, []byte("{truncated"), 0o600))
	cred, ok = store.Load()
	assert.Nil(t, cred)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(store.Path, []byte(`{"token_type":"Bearer"}`), 0o600))
	_, ok = store.Load()
	assert.False(t, ok)
}

func TestStoreClearThenLoad(t *testing.T) {
	store := fileStore(t)

	_, err := store.Save(&TokenResponse{AccessToken: "tok1"})
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	_, ok := store.Load()
	assert.False(t, ok)

	err = store.Clear()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreSaveCreatesDirAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := &TokenStore{Path: filepath.Join(dir, "nested", "credential.json")}

	_, err := store.Save(&TokenResponse{AccessToken: "tok1"})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "credential.json", entries[0].Name())
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := fileStore(t)

	_, err := store.Save(&TokenResponse{AccessToken: "tok1", RefreshToken: "ref1"})
	require.NoError(t, err)
	_, err = store.Save(&TokenResponse{AccessToken: "tok2"})
	require.NoError(t, err)

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok2", loaded.AccessToken)
	assert.Empty(t, loaded.RefreshToken)
}

func TestStoreIsExpired(t *testing.T) {
	store := fileStore(t)
	assert.True(t, store.IsExpired())

	// A 60 second lifetime is inside the 5 minute safety margin.
	_, err := store.Save(&TokenResponse{AccessToken: "tok1", ExpiresIn: 60})
	require.NoError(t, err)
	assert.True(t, store.IsExpired())

	_, err = store.Save(&TokenResponse{AccessToken: "tok1", ExpiresIn: 3600})
	require.NoError(t, err)
	assert.False(t, store.IsExpired())
}

func TestStoreKeychainBackend(t *testing.T) {
	keyring.MockInit()
	store := &TokenStore{Backend: StorageKeychain}

	_, err := store.Save(&TokenResponse{AccessToken: "tok1", ExpiresIn: 3600})
	require.NoError(t, err)

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok1", loaded.AccessToken)

	require.NoError(t, store.Clear())
	_, ok = store.Load()
	assert.False(t, ok)

	err = store.Clear()
	require.ErrorIs(t, err, os.ErrNotExist)
}
