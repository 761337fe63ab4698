package check

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verune/internal/config"
	"verune/internal/registry"
)

func setupRuntime(t *testing.T, root, name, meta string, versions ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, name, "meta.yaml"), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, v := range versions {
		if err := os.MkdirAll(filepath.Join(root, name, v), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeConfig(t *testing.T, cfg config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".ver.yaml")
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	return path
}

func errorFindings(r Report) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == Error {
			out = append(out, f)
		}
	}
	return out
}

func TestRunHealthyConfig(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "go", "display_name: Go\nsearch_paths: []\n", "1.22.0")
	path := writeConfig(t, config.Config{"go": "1.22.0"})

	report := Run(registry.New(root), Options{ConfigPath: path})

	if report.Verdict() != OK {
		t.Fatalf("verdict = %s, want ok: %+v", report.Verdict(), report.Findings)
	}
}

func TestRunUnregisteredRuntime(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, config.Config{"ghost": "1.0.0"})

	report := Run(registry.New(root), Options{ConfigPath: path})

	errs := errorFindings(report)
	if len(errs) != 1 {
		t.Fatalf("got %d error findings, want exactly 1: %+v", len(errs), report.Findings)
	}
	if errs[0].Runtime != "ghost" || !strings.Contains(errs[0].Message, "ghost") {
		t.Fatalf("error finding does not name the runtime: %+v", errs[0])
	}
	if report.Verdict() != Error {
		t.Fatalf("verdict = %s, want error", report.Verdict())
	}
}

func TestRunMissingVersion(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "demo", "display_name: Demo\nsearch_paths: []\n", "1.0.0")
	path := writeConfig(t, config.Config{"demo": "1.0.1"})

	report := Run(registry.New(root), Options{ConfigPath: path})

	errs := errorFindings(report)
	if len(errs) != 1 {
		t.Fatalf("got %d error findings, want 1: %+v", len(errs), report.Findings)
	}
	if !strings.Contains(errs[0].Message, "1.0.1") {
		t.Fatalf("finding does not name the version: %+v", errs[0])
	}
}

func TestRunMissingConfigNeverAborts(t *testing.T) {
	root := t.TempDir()

	report := Run(registry.New(root), Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})

	if report.Verdict() != Error {
		t.Fatalf("verdict = %s, want error", report.Verdict())
	}
	if len(report.Findings) == 0 {
		t.Fatal("missing config produced no findings")
	}
}

func TestRunMissingConfigWithOverlaysIsHealthy(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "demo", "display_name: Demo\nsearch_paths: []\n", "1.0.0")
	missing := filepath.Join(t.TempDir(), "none.yaml")

	t.Run("replacements supply the pins", func(t *testing.T) {
		report := Run(registry.New(root), Options{
			ConfigPath:   missing,
			Replacements: []string{"demo=1.0.0"},
		})
		if report.Verdict() != OK {
			t.Fatalf("verdict = %s, want ok: %+v", report.Verdict(), report.Findings)
		}
	})

	t.Run("overlay file supplies the pins", func(t *testing.T) {
		overlayPath := filepath.Join(t.TempDir(), "extra.yaml")
		if err := os.WriteFile(overlayPath, []byte("demo: 1.0.0\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		report := Run(registry.New(root), Options{
			ConfigPath:   missing,
			FlagOverlays: []string{overlayPath},
		})
		if report.Verdict() != OK {
			t.Fatalf("verdict = %s, want ok: %+v", report.Verdict(), report.Findings)
		}
	})

	t.Run("malformed base config is still an error", func(t *testing.T) {
		badPath := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(badPath, []byte("- not\n- a\n- mapping\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		report := Run(registry.New(root), Options{
			ConfigPath:   badPath,
			Replacements: []string{"demo=1.0.0"},
		})
		if report.Verdict() != Error {
			t.Fatalf("verdict = %s, want error: %+v", report.Verdict(), report.Findings)
		}
	})
}

func TestRunMalformedOverlayContinues(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "go", "display_name: Go\nsearch_paths: []\n", "1.22.0")
	path := writeConfig(t, config.Config{"go": "1.22.0"})

	badOverlay := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badOverlay, []byte("{{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := Run(registry.New(root), Options{
		ConfigPath:   path,
		FlagOverlays: []string{badOverlay},
	})

	errs := errorFindings(report)
	if len(errs) != 1 {
		t.Fatalf("got %d error findings, want 1: %+v", len(errs), report.Findings)
	}
	// The base pin must still have been resolved despite the bad overlay.
	var sawGo bool
	for _, f := range report.Findings {
		if f.Runtime == "go" && f.Severity == OK {
			sawGo = true
		}
	}
	if !sawGo {
		t.Fatal("pipeline stopped at the malformed overlay instead of continuing")
	}
}

func TestRunWarnsOnMissingSearchDir(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "node", "display_name: Node.js\nsearch_paths: [bin]\n", "20.1.0")
	path := writeConfig(t, config.Config{"node": "20.1.0"})

	report := Run(registry.New(root), Options{ConfigPath: path})

	if report.Verdict() != Warn {
		t.Fatalf("verdict = %s, want warn: %+v", report.Verdict(), report.Findings)
	}
	var sawWarn bool
	for _, f := range report.Findings {
		if f.Severity == Warn && strings.Contains(f.Message, "bin") {
			sawWarn = true
		}
	}
	if !sawWarn {
		t.Fatalf("no warning about the missing search dir: %+v", report.Findings)
	}
}

func TestRunConflictingReplacements(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "go", "display_name: Go\nsearch_paths: []\n", "1.22.0")
	path := writeConfig(t, config.Config{"go": "1.22.0"})

	report := Run(registry.New(root), Options{
		ConfigPath:   path,
		Replacements: []string{"go=1.22.0", "go=1.23.0"},
	})

	if report.Verdict() != Error {
		t.Fatalf("verdict = %s, want error", report.Verdict())
	}
}

func TestVerdictWorstSeverityWins(t *testing.T) {
	r := Report{Findings: []Finding{
		{Severity: OK, Message: "fine"},
		{Severity: Error, Message: "broken"},
		{Severity: Warn, Message: "meh"},
	}}
	if r.Verdict() != Error {
		t.Fatalf("verdict = %s, want error", r.Verdict())
	}
}
