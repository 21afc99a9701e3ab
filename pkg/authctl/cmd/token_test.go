package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkx-dev/authctl/pkg/authctl/auth"
)

func TestTokenCommandPrintsToken(t *testing.T) {
	credPath := filepath.Join(t.TempDir(), "credential.json")
	t.Setenv("AUTHCTL_CREDENTIAL_FILE", credPath)

	store := &auth.TokenStore{Path: credPath}
	_, err := store.Save(&auth.TokenResponse{AccessToken: "tok1", ExpiresIn: 3600})
	require.NoError(t, err)

	var out bytes.Buffer
	root := testRoot(t, &out, "")
	root.SetArgs([]string{"token"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "tok1\n", out.String())
}

func TestTokenCommandShowClaims(t *testing.T) {
	storeJWTCredential(t, 3600)

	var out bytes.Buffer
	root := testRoot(t, &out, "")
	root.SetArgs([]string{"token", "--show-claims"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"email": "local@example.com"`)
}

func TestTokenCommandShowClaimsNotJWT(t *testing.T) {
	credPath := filepath.Join(t.TempDir(), "credential.json")
	t.Setenv("AUTHCTL_CREDENTIAL_FILE", credPath)

	store := &auth.TokenStore{Path: credPath}
	_, err := store.Save(&auth.TokenResponse{AccessToken: "opaque", ExpiresIn: 3600})
	require.NoError(t, err)

	var out bytes.Buffer
	root := testRoot(t, &out, "")
	root.SetArgs([]string{"token", "--show-claims"})
	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JWT")
}

func TestTokenCommandNotLoggedIn(t *testing.T) {
	t.Setenv("AUTHCTL_CREDENTIAL_FILE", filepath.Join(t.TempDir(), "credential.json"))

	var out bytes.Buffer
	root := testRoot(t, &out, "")
	root.SetArgs([]string{"token"})
	require.Error(t, root.Execute())
}
