package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Credential storage backends.
const (
	StorageFile     = "file"
	StorageKeychain = "keychain"
)

// TokenStore owns the single persisted credential. The CLI keeps
// exactly one credential; re-login overwrites it wholesale and logout
// deletes it. Callers re-read before every use, so a copy never
// outlives one invocation. There is no cross-process locking: separate
// invocations racing on the file are last-writer-wins.
type TokenStore struct {
	// Path is the credential file location, used by the file backend.
	Path string
	// Backend selects StorageFile (default) or StorageKeychain.
	Backend string
}

// Load returns the stored credential. It fails soft: a missing file,
// unreadable content, or a malformed record all mean "not logged in",
// which is a normal state rather than an error.
func (s *TokenStore) Load() (*Credential, bool) {
	var data []byte
	if s.Backend == StorageKeychain {
		secret, err := keychainLoad()
		if err != nil {
			return nil, false
		}
		data = []byte(secret)
	} else {
		content, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, false
		}
		data = content
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, false
	}
	if cred.AccessToken == "" {
		return nil, false
	}
	return &cred, true
}

// Save normalizes the raw token response and persists it. The file
// backend writes to a temp file in the target directory and renames it
// into place, so a crash mid-write cannot be read back as a truncated
// record. The normalized credential is returned even when persisting
// fails, so the caller can still report the login outcome.
func (s *TokenStore) Save(resp *TokenResponse) (Credential, error) {
	cred := NewCredential(resp, time.Now())
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return cred, fmt.Errorf("failed to encode credential: %w", err)
	}
	if s.Backend == StorageKeychain {
		if err := keychainSave(string(data)); err != nil {
			return cred, fmt.Errorf("failed to store credential in keychain: %w", err)
		}
		return cred, nil
	}
	if err := writeFileAtomic(s.Path, data); err != nil {
		return cred, fmt.Errorf("failed to store credential: %w", err)
	}
	return cred, nil
}

// Clear deletes the stored credential. It returns os.ErrNotExist when
// there was nothing to delete; callers treat that as already logged
// out, not as a failure.
func (s *TokenStore) Clear() error {
	if s.Backend == StorageKeychain {
		return keychainClear()
	}
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return err
}

// IsExpired reports whether the stored credential is missing or within
// the expiry safety margin. A credential without an expiry is treated
// as non-expiring.
func (s *TokenStore) IsExpired() bool {
	cred, ok := s.Load()
	if !ok {
		return true
	}
	return cred.Expired(time.Now())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
