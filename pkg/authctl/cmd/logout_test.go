package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkx-dev/authctl/pkg/authctl/auth"
)

func TestLogoutRemovesCredential(t *testing.T) {
	credPath := filepath.Join(t.TempDir(), "credential.json")
	t.Setenv("AUTHCTL_CREDENTIAL_FILE", credPath)

	store := &auth.TokenStore{Path: credPath}
	_, err := store.Save(&auth.TokenResponse{AccessToken: "tok1"})
	require.NoError(t, err)

	var out bytes.Buffer
	root := testRoot(t, &out, "")
	root.SetArgs([]string{"logout", "--force"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Logged out")

	_, err = os.Stat(credPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLogoutConfirmDeclined(t *testing.T) {
	credPath := filepath.Join(t.TempDir(), "credential.json")
	t.Setenv("AUTHCTL_CREDENTIAL_FILE", credPath)

	store := &auth.TokenStore{Path: credPath}
	_, err := store.Save(&auth.TokenResponse{AccessToken: "tok1"})
	require.NoError(t, err)

	var out bytes.Buffer
	root := testRoot(t, &out, "n\n")
	root.SetArgs([]string{"logout"})
	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logout cancelled")

	_, ok := store.Load()
	assert.True(t, ok)
}

func TestLogoutNotLoggedIn(t *testing.T) {
	t.Setenv("AUTHCTL_CREDENTIAL_FILE", filepath.Join(t.TempDir(), "credential.json"))

	var out bytes.Buffer
	root := testRoot(t, &out, "")
	root.SetArgs([]string{"logout", "--force"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Not logged in")
}
