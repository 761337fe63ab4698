// Package check runs the same load, merge, and registry-resolution stages
// as a scope launch, but in diagnostic mode: every failure becomes a
// recorded finding instead of an abort, and processing continues with the
// next entry until everything has been examined. The run is read-only.
package check

import (
	"encoding/json"
	"fmt"
	"sort"

	"verune/internal/config"
	"verune/internal/overlay"
	"verune/internal/paths"
	"verune/internal/registry"
	"verune/internal/verr"
)

// Severity orders findings from healthy to broken.
type Severity int

const (
	OK Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "ok"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its name for machine output.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Finding is one diagnostic result.
type Finding struct {
	Severity Severity `json:"severity"`
	Runtime  string   `json:"runtime,omitempty"`
	Message  string   `json:"message"`
}

// Report collects findings; the verdict is the worst severity among them.
type Report struct {
	Findings []Finding `json:"findings"`
}

// Verdict returns the worst severity in the report.
func (r Report) Verdict() Severity {
	worst := OK
	for _, f := range r.Findings {
		if f.Severity > worst {
			worst = f.Severity
		}
	}
	return worst
}

func (r *Report) add(severity Severity, runtime, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Runtime:  runtime,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Options name the same inputs a scope launch would resolve.
type Options struct {
	ConfigPath   string
	EnvOverlays  []string
	FlagOverlays []string
	Replacements []string
}

// Run executes the diagnostic pipeline. Stages mirror the launch path
// (load, merge overlays, resolve against the registry) but a failed entry
// degrades to a finding and the run moves on to the next entry.
func Run(reg *registry.Registry, opts Options) Report {
	var report Report

	base, layers, replacements := loadStage(&report, opts)
	pinning := overlay.Resolve(base, layers, replacements)
	resolveStage(&report, reg, pinning)

	return report
}

func loadStage(report *Report, opts Options) (config.Config, []overlay.Layer, []overlay.Replacement) {
	base, err := config.Load(opts.ConfigPath)
	if err != nil {
		// A missing base config is healthy when overlays or replacements
		// supply the pins; it is only an error with no pinning source at all.
		hasOverlays := len(opts.EnvOverlays)+len(opts.FlagOverlays)+len(opts.Replacements) > 0
		if verr.KindOf(err) == verr.ConfigNotFound && hasOverlays {
			report.add(OK, "", "no base configuration at %s; resolving overlays only", opts.ConfigPath)
		} else {
			report.add(Error, "", "%v", err)
		}
		base = config.Config{}
	} else {
		report.add(OK, "", "configuration %s parsed (%d pins)", opts.ConfigPath, len(base))
	}

	var layers []overlay.Layer
	loadOne := func(path string, source overlay.Source) {
		layer, err := overlay.LoadLayer(path, source)
		if err != nil {
			report.add(Error, "", "%v", err)
			return
		}
		layers = append(layers, layer)
		report.add(OK, "", "overlay %s parsed (%d pins)", path, len(layer.Pins))
	}
	for _, path := range opts.EnvOverlays {
		loadOne(path, overlay.SourceEnv)
	}
	for _, path := range opts.FlagOverlays {
		loadOne(path, overlay.SourceFlag)
	}

	var replacements []overlay.Replacement
	seen := map[string]string{}
	for _, spec := range opts.Replacements {
		repl, err := overlay.ParseReplacement(spec)
		if err != nil {
			report.add(Error, "", "%v", err)
			continue
		}
		if prev, ok := seen[repl.Runtime]; ok && prev != repl.Version {
			report.add(Error, repl.Runtime,
				"runtime %q replaced with both %s and %s", repl.Runtime, prev, repl.Version)
			continue
		}
		seen[repl.Runtime] = repl.Version
		replacements = append(replacements, repl)
	}

	return base, layers, replacements
}

func resolveStage(report *Report, reg *registry.Registry, pinning overlay.Pinning) {
	names := make([]string, 0, len(pinning))
	for name := range pinning {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		binding := pinning[name]

		meta, err := reg.LoadMetadata(name)
		if err != nil {
			report.add(Error, name, "%v", err)
			continue
		}

		installed, err := reg.IsInstalled(name, binding.Version)
		if err != nil {
			report.add(Error, name, "%v", err)
			continue
		}
		if !installed {
			report.add(Error, name, "version %s for runtime %q is not installed", binding.Version, name)
			continue
		}

		report.add(OK, name, "version %s installed (via %s)", binding.Version, binding.Source)

		dirs, err := reg.ResolveSearchDirs(name, binding.Version)
		if err != nil {
			report.add(Error, name, "%v", err)
			continue
		}
		// First dir is the version root, already known to exist.
		for i, dir := range dirs[1:] {
			exists, err := paths.DirExists(dir)
			if err != nil {
				report.add(Warn, name, "stat search path %s: %v", dir, err)
				continue
			}
			if !exists {
				report.add(Warn, name, "declared search path %q does not exist under %s",
					meta.SearchPaths[i], reg.VersionDir(name, binding.Version))
			}
		}
	}
}
