package scope

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verune/internal/overlay"
	"verune/internal/registry"
	"verune/internal/verr"
)

func setupRuntime(t *testing.T, root, name string, searchPaths []string, versions ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
		t.Fatal(err)
	}
	meta := "display_name: " + name + "\nsearch_paths: [" + strings.Join(searchPaths, ", ") + "]\n"
	if err := os.WriteFile(filepath.Join(root, name, "meta.yaml"), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, v := range versions {
		if err := os.MkdirAll(filepath.Join(root, name, v), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func pin(version string) overlay.Binding {
	return overlay.Binding{Version: version, Source: overlay.SourceConfig}
}

func TestBuildOrdering(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "A", []string{"bin"}, "1.0.0")
	setupRuntime(t, root, "B", nil, "2.0.0")

	env, err := Build(overlay.Pinning{"B": pin("2.0.0"), "A": pin("1.0.0")}, registry.New(root), "/usr/bin")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "A", "1.0.0"),
		filepath.Join(root, "A", "1.0.0", "bin"),
		filepath.Join(root, "B", "2.0.0"),
	}
	if len(env.SearchDirs) != len(want) {
		t.Fatalf("got %d dirs, want %d: %v", len(env.SearchDirs), len(want), env.SearchDirs)
	}
	for i := range want {
		if env.SearchDirs[i] != want[i] {
			t.Fatalf("dir[%d] = %s, want %s", i, env.SearchDirs[i], want[i])
		}
	}

	sep := string(os.PathListSeparator)
	wantPath := strings.Join(append(want, "/usr/bin"), sep)
	if env.PathValue() != wantPath {
		t.Fatalf("PathValue = %s, want %s", env.PathValue(), wantPath)
	}
}

func TestBuildAbortsOnMissingVersion(t *testing.T) {
	root := t.TempDir()
	setupRuntime(t, root, "A", nil, "1.0.0")
	setupRuntime(t, root, "B", nil, "2.0.0")

	_, err := Build(overlay.Pinning{"A": pin("1.0.0"), "B": pin("9.9.9")}, registry.New(root), "/usr/bin")
	if verr.KindOf(err) != verr.VersionNotInstalled {
		t.Fatalf("kind = %v, want VersionNotInstalled", verr.KindOf(err))
	}
}

func TestBuildAbortsOnUnknownRuntime(t *testing.T) {
	root := t.TempDir()

	_, err := Build(overlay.Pinning{"ghost": pin("1.0.0")}, registry.New(root), "")
	if verr.KindOf(err) != verr.RuntimeUnknown {
		t.Fatalf("kind = %v, want RuntimeUnknown", verr.KindOf(err))
	}
}

func TestPathValueWithoutInheritedPath(t *testing.T) {
	env := Environment{SearchDirs: []string{"/a", "/b"}}
	sep := string(os.PathListSeparator)
	if env.PathValue() != "/a"+sep+"/b" {
		t.Fatalf("PathValue = %s", env.PathValue())
	}
}

func TestEnviron(t *testing.T) {
	env := Environment{SearchDirs: []string{"/scoped/bin"}, InheritedPath: "/usr/bin"}

	t.Run("first scope", func(t *testing.T) {
		got := env.environ([]string{"PATH=/usr/bin", "HOME=/home/u"})
		assertContains(t, got, "PATH="+env.PathValue())
		assertContains(t, got, "VER_SCOPE=1")
		assertContains(t, got, "VER_OVERRIDE=1")
		assertContains(t, got, "HOME=/home/u")
	})

	t.Run("nested scope increments depth", func(t *testing.T) {
		got := env.environ([]string{"PATH=/usr/bin", "VER_SCOPE=2", "VER_OVERRIDE=1"})
		assertContains(t, got, "VER_SCOPE=3")
		for _, kv := range got {
			if kv == "VER_SCOPE=2" {
				t.Fatal("stale VER_SCOPE left in environment")
			}
		}
	})

	t.Run("garbage depth resets to one", func(t *testing.T) {
		got := env.environ([]string{"VER_SCOPE=banana"})
		assertContains(t, got, "VER_SCOPE=1")
	})
}

func assertContains(t *testing.T, environ []string, want string) {
	t.Helper()
	for _, kv := range environ {
		if kv == want {
			return
		}
	}
	t.Fatalf("environment missing %q: %v", want, environ)
}

func TestCommandProgramSelection(t *testing.T) {
	env := Environment{}

	t.Run("explicit argv", func(t *testing.T) {
		cmd := env.Command([]string{"python", "-V"})
		if cmd.Args[0] != "python" {
			t.Fatalf("program = %s, want python", cmd.Args[0])
		}
		if len(cmd.Args) != 2 || cmd.Args[1] != "-V" {
			t.Fatalf("args = %v", cmd.Args)
		}
	})

	t.Run("falls back to SHELL", func(t *testing.T) {
		t.Setenv("SHELL", "/bin/fakesh")
		cmd := env.Command(nil)
		if cmd.Args[0] != "/bin/fakesh" {
			t.Fatalf("program = %s, want /bin/fakesh", cmd.Args[0])
		}
	})

	t.Run("sh when SHELL unset", func(t *testing.T) {
		t.Setenv("SHELL", "")
		cmd := env.Command(nil)
		if cmd.Args[0] != "sh" && cmd.Args[0] != "cmd" {
			t.Fatalf("program = %s, want platform default shell", cmd.Args[0])
		}
	})
}
