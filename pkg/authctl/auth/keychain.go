package auth

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	keychainService = "authctl"
	keychainAccount = "credential"
)

func keychainLoad() (string, error) {
	secret, err := keyring.Get(keychainService, keychainAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", os.ErrNotExist
		}
		return "", err
	}
	return secret, nil
}

func keychainSave(secret string) error {
	return keyring.Set(keychainService, keychainAccount, secret)
}

func keychainClear() error {
	err := keyring.Delete(keychainService, keychainAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return os.ErrNotExist
	}
	return err
}
