package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"verune/internal/overlay"
	"verune/internal/paths"
	"verune/internal/verr"
)

var (
	configFlag   string
	overlayFlags []string
	replaceFlags []string
	outputJSON   bool
)

// ChildExit reports the exit status of a child process that actually ran.
// The tool passes it through unchanged instead of reinterpreting it.
type ChildExit struct {
	Code int
}

func (e *ChildExit) Error() string {
	return fmt.Sprintf("child exited with status %d", e.Code)
}

// Execute runs the root cobra command and exits with the appropriate code.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		var child *ChildExit
		if errors.As(err, &child) {
			os.Exit(child.Code)
		}
		fmt.Fprintf(os.Stderr, "verune: %v\n", err)
		os.Exit(verr.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "verune",
		Short:         "Pin per-project runtime versions and run commands inside them",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to the pinning configuration")
	cmd.PersistentFlags().StringArrayVarP(&overlayFlags, "overlay", "o", nil, "Overlay a pinning file for this invocation (repeatable)")
	cmd.PersistentFlags().StringArrayVarP(&replaceFlags, "replace", "r", nil, "Replace one pin as RUNTIME=VERSION for this invocation (repeatable)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newSwitchCmd())
	cmd.AddCommand(newScopeCmd())
	cmd.AddCommand(newTemplateCmd())

	return cmd
}

// resolveInputs gathers the per-invocation resolution inputs: the runtime
// root, the config path, and overlay paths from the environment list.
func resolveInputs() (root, configPath string, envOverlays []string, err error) {
	root, err = paths.RuntimeRoot()
	if err != nil {
		return "", "", nil, err
	}
	configPath = paths.ConfigFile(configFlag)
	envOverlays = overlay.SplitList(os.Getenv(paths.OverlaysEnv))
	return root, configPath, envOverlays, nil
}
