package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultConfigName is the project pinning file looked up in the
	// working directory when nothing more explicit is given.
	DefaultConfigName = ".ver.yaml"

	// ConfigEnv overrides the config path when the --config flag is unset.
	ConfigEnv = "VER_CONFIG"

	// RootEnv overrides the runtime root, mainly for tests and sandboxes.
	RootEnv = "VER_ROOT"

	// OverlaysEnv holds a path-list-separated list of overlay files.
	OverlaysEnv = "VERUNE_OVERLAYS"

	// MetadataName is the per-runtime metadata file inside the root.
	MetadataName = "meta.yaml"
)

// RuntimeRoot resolves the directory holding installed runtimes. The value
// is computed once per invocation and passed explicitly to the registry so
// the resolution pipeline never reads ambient state on its own.
func RuntimeRoot() (string, error) {
	if env := os.Getenv(RootEnv); env != "" {
		root, err := filepath.Abs(env)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", RootEnv, err)
		}
		return root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, ".ver"), nil
}

// ConfigFile picks the project config path: the --config flag wins, then
// $VER_CONFIG, then the default name in the working directory.
func ConfigFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ConfigEnv); env != "" {
		return env
	}
	return DefaultConfigName
}

// MetadataFile returns the metadata path for a runtime under root.
func MetadataFile(root, runtime string) string {
	return filepath.Join(root, runtime, MetadataName)
}

// VersionDir returns the install directory for a runtime version.
func VersionDir(root, runtime, version string) string {
	return filepath.Join(root, runtime, version)
}

// LogsDir returns the log directory under the runtime root.
func LogsDir(root string) string {
	return filepath.Join(root, "logs")
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
