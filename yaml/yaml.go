// Package yaml loads and saves [trickle.Config] as YAML files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/trickle"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".trickle"
	configFile = "config.yaml"
)

// DefaultPath returns the per-user configuration path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(configDir, configFile)
	}
	return filepath.Join(home, configDir, configFile)
}

// Load reads the configuration at path on top of [trickle.DefaultConfig].
// An empty path means [DefaultPath], which is allowed not to exist. An
// explicit path must exist. Unknown keys are rejected. The result is not
// validated: callers apply their overrides first.
func Load(path string) (trickle.Config, error) {
	cfg := trickle.DefaultConfig()
	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return trickle.Config{}, fmt.Errorf("yaml: read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return trickle.Config{}, fmt.Errorf("yaml: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save validates cfg and writes it to path with 0600 permissions. The file
// is replaced atomically.
func Save(path string, cfg trickle.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("yaml: invalid config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("yaml: marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("yaml: create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("yaml: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("yaml: write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("yaml: write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("yaml: write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("yaml: write config: %w", err)
	}
	return nil
}
