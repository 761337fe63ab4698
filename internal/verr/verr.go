// Package verr defines the error taxonomy shared by the resolution
// pipeline. Every failure a command can surface is one of these kinds, and
// each kind maps to its own process exit code so scripts can distinguish
// categories without parsing messages.
package verr

import (
	"errors"
	"fmt"
)

// Kind classifies a resolution failure.
type Kind int

const (
	Unclassified Kind = iota
	ConfigNotFound
	ConfigMalformed
	RuntimeUnknown
	VersionNotInstalled
	OverlayMalformed
	OverlayConflict
	ChildSpawnFailed
	IoFailure
)

// Error carries a kind plus whatever identifying detail the kind needs.
type Error struct {
	Kind    Kind
	Path    string
	Runtime string
	Version string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ConfigNotFound:
		return fmt.Sprintf("configuration file %q not found", e.Path)
	case ConfigMalformed:
		return fmt.Sprintf("%s is not a valid configuration: %s", e.Path, e.Detail)
	case RuntimeUnknown:
		return fmt.Sprintf("could not find runtime %q: no metadata at %s", e.Runtime, e.Path)
	case VersionNotInstalled:
		return fmt.Sprintf("version %s for runtime %q is not installed", e.Version, e.Runtime)
	case OverlayMalformed:
		if e.Path == "" {
			return e.Detail
		}
		return fmt.Sprintf("overlay %s: %s", e.Path, e.Detail)
	case OverlayConflict:
		return fmt.Sprintf("conflicting replacements: %s", e.Detail)
	case ChildSpawnFailed:
		return fmt.Sprintf("start program: %s", e.Detail)
	case IoFailure:
		return fmt.Sprintf("%s: %s", e.Path, e.Detail)
	default:
		return e.Detail
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing project configuration file.
func NotFound(path string) error {
	return &Error{Kind: ConfigNotFound, Path: path}
}

// Malformed reports an unparseable configuration or metadata document.
func Malformed(path string, err error) error {
	return &Error{Kind: ConfigMalformed, Path: path, Detail: err.Error(), Err: err}
}

// UnknownRuntime reports a runtime with no registry metadata.
func UnknownRuntime(name, metaPath string) error {
	return &Error{Kind: RuntimeUnknown, Runtime: name, Path: metaPath}
}

// NotInstalled reports a pinned version whose install directory is absent.
func NotInstalled(runtime, version string) error {
	return &Error{Kind: VersionNotInstalled, Runtime: runtime, Version: version}
}

// BadOverlay reports an overlay source that could not be read or parsed.
func BadOverlay(path string, err error) error {
	return &Error{Kind: OverlayMalformed, Path: path, Detail: err.Error(), Err: err}
}

// BadReplace reports a --replace spec that is not RUNTIME=VERSION. The spec
// is flag text, not a file, so the message names the flag rather than an
// overlay path.
func BadReplace(spec string) error {
	return &Error{
		Kind:   OverlayMalformed,
		Detail: fmt.Sprintf("invalid --replace %q: expected RUNTIME=VERSION", spec),
	}
}

// Conflict reports the same replacement binding supplied twice with
// different versions.
func Conflict(detail string) error {
	return &Error{Kind: OverlayConflict, Detail: detail}
}

// SpawnFailed reports a child process that never started.
func SpawnFailed(err error) error {
	return &Error{Kind: ChildSpawnFailed, Detail: err.Error(), Err: err}
}

// IO reports a filesystem failure that is none of the more specific kinds.
func IO(path string, err error) error {
	return &Error{Kind: IoFailure, Path: path, Detail: err.Error(), Err: err}
}

// KindOf extracts the kind from an error chain, or Unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unclassified
}

// ExitCode maps an error to the process exit code for its kind. Success is
// the caller's business; this is only consulted for non-nil errors.
func ExitCode(err error) int {
	switch KindOf(err) {
	case ConfigNotFound:
		return 2
	case ConfigMalformed:
		return 3
	case RuntimeUnknown:
		return 4
	case VersionNotInstalled:
		return 5
	case OverlayMalformed:
		return 6
	case OverlayConflict:
		return 7
	case ChildSpawnFailed:
		return 8
	case IoFailure:
		return 9
	default:
		return 1
	}
}
