// Package config loads and persists the project pinning file: a flat YAML
// mapping of runtime name to version string.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"verune/internal/registry"
	"verune/internal/verr"
)

// Config maps each pinned runtime to its version. A runtime appears at most
// once; overlays with the same shape are layered on top at resolve time.
type Config map[string]string

// Load reads the pinning file from disk. A missing file is ConfigNotFound;
// callers that treat absence as an empty config check for that kind.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, verr.NotFound(path)
		}
		return nil, verr.IO(path, err)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, verr.Malformed(path, err)
	}
	return cfg, nil
}

// Save writes the config atomically: marshal to a sibling temp file, then
// rename over the target, so a crash mid-write never truncates the existing
// file.
func Save(path string, cfg Config) error {
	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, contents, 0o644); err != nil {
		return verr.IO(tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return verr.IO(path, err)
	}
	return nil
}

// Switch performs the read-modify-write for one pin. Unless skipCheck is
// set, the registry is consulted first and an unknown runtime or missing
// install aborts before anything touches the disk. A missing config file is
// treated as empty so the first switch creates it.
func Switch(reg *registry.Registry, path, runtime, version string, skipCheck bool) error {
	cfg, err := Load(path)
	if err != nil {
		if verr.KindOf(err) != verr.ConfigNotFound {
			return err
		}
		cfg = Config{}
	}

	if !skipCheck {
		if _, err := reg.LoadMetadata(runtime); err != nil {
			return err
		}
		installed, err := reg.IsInstalled(runtime, version)
		if err != nil {
			return err
		}
		if !installed {
			return verr.NotInstalled(runtime, version)
		}
	}

	cfg[runtime] = version
	return Save(path, cfg)
}
