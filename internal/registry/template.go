package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"verune/internal/paths"
	"verune/internal/verr"
)

// WriteTemplate creates the runtime's directory under the root and writes a
// blank metadata skeleton for the user to fill in. It refuses to clobber
// metadata that already exists and returns the path it wrote.
func (r *Registry) WriteTemplate(name string) (string, error) {
	metaPath := r.MetadataPath(name)
	exists, err := paths.FileExists(metaPath)
	if err != nil {
		return "", verr.IO(metaPath, err)
	}
	if exists {
		return "", verr.IO(metaPath, fmt.Errorf("metadata for runtime %q already exists", name))
	}

	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return "", verr.IO(filepath.Dir(metaPath), err)
	}

	skeleton := Metadata{DisplayName: "", SearchPaths: []string{}}
	contents, err := yaml.Marshal(skeleton)
	if err != nil {
		return "", fmt.Errorf("marshal metadata template: %w", err)
	}
	if err := os.WriteFile(metaPath, contents, 0o644); err != nil {
		return "", verr.IO(metaPath, err)
	}
	return metaPath, nil
}
