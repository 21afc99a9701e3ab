package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName  = "authctl"
	defaultConfigFile     = "config.yaml"
	defaultCredentialFile = "credential.json"
	fallbackConfigDirName = ".authctl"
)

// DefaultConfigPath returns the config file location, honoring the
// AUTHCTL_CONFIG override.
func DefaultConfigPath() string {
	if env := os.Getenv("AUTHCTL_CONFIG"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallbackConfigDirName, defaultConfigFile)
}

// DefaultCredentialPath returns the credential file location, honoring
// the AUTHCTL_CREDENTIAL_FILE override.
func DefaultCredentialPath() string {
	if env := os.Getenv("AUTHCTL_CREDENTIAL_FILE"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultCredentialFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallbackConfigDirName, defaultCredentialFile)
}
