// Package overlay merges the base project config with ephemeral pinning
// layers into one effective pinning map. Precedence, lowest to highest:
// base config, overlays named in $VERUNE_OVERLAYS (in list order), --overlay
// flags (in given order), --replace bindings. Replace is not another layer:
// a runtime it names wins outright, regardless of what any overlay said.
package overlay

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"verune/internal/verr"
)

// Source tags where a binding came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
	SourceReplace Source = "replace-set"
)

// Layer is one ephemeral pinning document. Layers are built fresh per
// invocation and never persisted.
type Layer struct {
	Source Source
	Path   string
	Pins   map[string]string
}

// Replacement is a single --replace binding.
type Replacement struct {
	Runtime string
	Version string
}

// Binding is one entry of the effective pinning, with provenance.
type Binding struct {
	Version string
	Source  Source
	Path    string
}

// Pinning is the fold result over base config and overlays.
type Pinning map[string]Binding

// SplitList splits a $VERUNE_OVERLAYS value into overlay paths, dropping
// empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadLayer reads one overlay file, shaped like a project config. Any
// failure to read or parse is OverlayMalformed; overlays are explicit
// requests and a missing file is as wrong as an unparseable one.
func LoadLayer(path string, source Source) (Layer, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, verr.BadOverlay(path, err)
	}
	pins := map[string]string{}
	if err := yaml.Unmarshal(contents, &pins); err != nil {
		return Layer{}, verr.BadOverlay(path, err)
	}
	return Layer{Source: source, Path: path, Pins: pins}, nil
}

// LoadLayers reads the environment-supplied overlays followed by the flag
// overlays, preserving the precedence order of the result slice.
func LoadLayers(envPaths, flagPaths []string) ([]Layer, error) {
	layers := make([]Layer, 0, len(envPaths)+len(flagPaths))
	for _, path := range envPaths {
		layer, err := LoadLayer(path, SourceEnv)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	for _, path := range flagPaths {
		layer, err := LoadLayer(path, SourceFlag)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// ParseReplacements parses --replace specs of the form runtime=version.
// The same runtime given twice with different versions is a conflict; an
// exact duplicate is tolerated.
func ParseReplacements(specs []string) ([]Replacement, error) {
	var out []Replacement
	seen := map[string]string{}
	for _, spec := range specs {
		repl, err := ParseReplacement(spec)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[repl.Runtime]; ok {
			if prev != repl.Version {
				return nil, verr.Conflict(fmt.Sprintf(
					"runtime %q replaced with both %s and %s", repl.Runtime, prev, repl.Version))
			}
			continue
		}
		seen[repl.Runtime] = repl.Version
		out = append(out, repl)
	}
	return out, nil
}

// ParseReplacement parses one runtime=version spec.
func ParseReplacement(spec string) (Replacement, error) {
	runtime, version, ok := strings.Cut(spec, "=")
	if !ok || runtime == "" || version == "" {
		return Replacement{}, verr.BadReplace(spec)
	}
	return Replacement{Runtime: runtime, Version: version}, nil
}
