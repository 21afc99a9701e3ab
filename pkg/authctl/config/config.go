// Package config holds the authctl config file format and the default
// on-disk locations for configuration and the stored credential.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type Config struct {
	ServerURL             string `yaml:"server-url,omitempty"`
	ClientID              string `yaml:"client-id,omitempty"`
	Scope                 string `yaml:"scope,omitempty"`
	TokenStorage          string `yaml:"token-storage,omitempty"`
	NoBrowser             bool   `yaml:"no-browser,omitempty"`
	CAFile                string `yaml:"ca-file,omitempty"`
	InsecureSkipTLSVerify bool   `yaml:"insecure-skip-tls-verify,omitempty"`
}

func Default() Config {
	return Config{
		ServerURL:    "http://localhost:3002",
		Scope:        "openid profile email",
		TokenStorage: "file",
	}
}

// Load reads the config file. A missing file is not an error: the tool
// works from flags and environment alone, so defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Write persists the config, creating the containing directory.
func Write(path string, cfg Config) error {
	if path == "" {
		return errors.New("config path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}
