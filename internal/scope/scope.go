// Package scope turns an effective pinning into the environment a child
// process is launched with: a search-path prefix resolved runtime by
// runtime, followed by the inherited PATH unchanged.
package scope

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"verune/internal/overlay"
	"verune/internal/registry"
)

const (
	// DepthEnv counts scope nesting so prompts can show how deep they are.
	DepthEnv = "VER_SCOPE"

	// legacyOverrideEnv remains for older prompt integrations.
	legacyOverrideEnv = "VER_OVERRIDE"
)

// Environment is the ordered search-path prefix plus the PATH it inherits.
type Environment struct {
	SearchDirs    []string
	InheritedPath string
}

// Build resolves search directories for every pinned runtime. Runtimes are
// visited in sorted name order so the result is deterministic, and earlier
// runtimes take priority on executable-name collisions. Any missing runtime
// or version aborts the whole build; a half-built search path could
// silently resolve to the wrong executable.
func Build(pinning overlay.Pinning, reg *registry.Registry, inheritedPath string) (Environment, error) {
	names := make([]string, 0, len(pinning))
	for name := range pinning {
		names = append(names, name)
	}
	sort.Strings(names)

	env := Environment{InheritedPath: inheritedPath}
	for _, name := range names {
		dirs, err := reg.ResolveSearchDirs(name, pinning[name].Version)
		if err != nil {
			return Environment{}, err
		}
		env.SearchDirs = append(env.SearchDirs, dirs...)
	}
	return env, nil
}

// PathValue joins the search-path prefix and the inherited PATH with the
// platform's list separator.
func (e Environment) PathValue() string {
	parts := make([]string, 0, len(e.SearchDirs)+1)
	parts = append(parts, e.SearchDirs...)
	if e.InheritedPath != "" {
		parts = append(parts, e.InheritedPath)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

// environ builds the child environment from a base environ: PATH is
// replaced with the scoped value, the nesting counter is incremented, and
// the legacy override marker is set. Everything else passes through.
func (e Environment) environ(base []string) []string {
	depth := 1
	out := make([]string, 0, len(base)+3)
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "PATH", legacyOverrideEnv:
			continue
		case DepthEnv:
			if n, err := strconv.Atoi(value); err == nil {
				depth = n + 1
			}
			continue
		}
		out = append(out, kv)
	}
	out = append(out,
		"PATH="+e.PathValue(),
		DepthEnv+"="+strconv.Itoa(depth),
		legacyOverrideEnv+"=1",
	)
	return out
}
