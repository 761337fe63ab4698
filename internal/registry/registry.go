// Package registry reads the global runtime root: per-runtime metadata,
// install presence, and the search directories a pinned version contributes
// to a scope. Every call reads the filesystem fresh; nothing is cached
// between invocations, so the registry never goes stale behind an installer.
package registry

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"verune/internal/paths"
	"verune/internal/verr"
)

// Metadata describes a runtime directory. It is externally authored and
// read-only from the tool's point of view.
type Metadata struct {
	DisplayName string   `yaml:"display_name"`
	SearchPaths []string `yaml:"search_paths"`
}

// Registry answers questions about runtimes installed under a single root.
type Registry struct {
	Root string
}

// New returns a registry over the given runtime root. The root is a plain
// path value resolved by the caller, not ambient state.
func New(root string) *Registry {
	return &Registry{Root: root}
}

// MetadataPath returns the metadata file location for a runtime.
func (r *Registry) MetadataPath(name string) string {
	return paths.MetadataFile(r.Root, name)
}

// VersionDir returns the install directory for a runtime version.
func (r *Registry) VersionDir(name, version string) string {
	return paths.VersionDir(r.Root, name, version)
}

// LoadMetadata reads and parses a runtime's metadata file.
func (r *Registry) LoadMetadata(name string) (Metadata, error) {
	metaPath := r.MetadataPath(name)
	contents, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Metadata{}, verr.UnknownRuntime(name, metaPath)
		}
		return Metadata{}, verr.IO(metaPath, err)
	}

	var meta Metadata
	if err := yaml.Unmarshal(contents, &meta); err != nil {
		return Metadata{}, verr.Malformed(metaPath, err)
	}
	return meta, nil
}

// IsInstalled reports whether a version directory exists for the runtime.
func (r *Registry) IsInstalled(name, version string) (bool, error) {
	ok, err := paths.DirExists(r.VersionDir(name, version))
	if err != nil {
		return false, verr.IO(r.VersionDir(name, version), err)
	}
	return ok, nil
}

// ResolveSearchDirs returns the ordered search directories a pinned version
// contributes: the version root itself always comes first, followed by each
// declared search path joined onto it in declared order. Declared entries
// are not stat'ed here; the checker reports missing ones.
func (r *Registry) ResolveSearchDirs(name, version string) ([]string, error) {
	meta, err := r.LoadMetadata(name)
	if err != nil {
		return nil, err
	}

	versionDir := r.VersionDir(name, version)
	installed, err := paths.DirExists(versionDir)
	if err != nil {
		return nil, verr.IO(versionDir, err)
	}
	if !installed {
		return nil, verr.NotInstalled(name, version)
	}

	dirs := make([]string, 0, len(meta.SearchPaths)+1)
	dirs = append(dirs, versionDir)
	for _, sub := range meta.SearchPaths {
		dirs = append(dirs, filepath.Join(versionDir, sub))
	}
	return dirs, nil
}
