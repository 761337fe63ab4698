package cli

import (
	"os"

	"github.com/spf13/cobra"

	"verune/internal/config"
	"verune/internal/logx"
	"verune/internal/overlay"
	"verune/internal/registry"
	"verune/internal/scope"
	"verune/internal/verr"
)

func newScopeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope [program [args...]]",
		Short: "Run a command with pinned runtime versions on the search path",
		Long: "Spawns a child process whose PATH is prefixed with the resolved " +
			"directories of every pinned runtime version. Without arguments the " +
			"program from $SHELL is started, so the whole shell session is scoped. " +
			"The child's own exit status becomes the tool's exit status.",
		Args: cobra.ArbitraryArgs,
		RunE: runScope,
	}

	// Flags after the program belong to the child, not to verune.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runScope(cmd *cobra.Command, args []string) error {
	root, configPath, envOverlays, err := resolveInputs()
	if err != nil {
		return err
	}

	logger, closer, logErr := logx.New(root)
	if logErr != nil {
		logger = logx.Discard()
	} else {
		defer closer.Close()
	}
	logger.Printf("verune scope: root=%s config=%s args=%q", root, configPath, args)

	// Overlay layers and replacements can carry every pin themselves; a
	// missing base config only aborts when there is no pinning source at all.
	base, err := config.Load(configPath)
	if err != nil {
		hasOverlays := len(envOverlays)+len(overlayFlags)+len(replaceFlags) > 0
		if verr.KindOf(err) != verr.ConfigNotFound || !hasOverlays {
			return err
		}
		base = config.Config{}
	}
	layers, err := overlay.LoadLayers(envOverlays, overlayFlags)
	if err != nil {
		return err
	}
	replacements, err := overlay.ParseReplacements(replaceFlags)
	if err != nil {
		return err
	}

	pinning := overlay.Resolve(base, layers, replacements)
	env, err := scope.Build(pinning, registry.New(root), os.Getenv("PATH"))
	if err != nil {
		return err
	}
	logger.Printf("scope environment: %d runtimes, %d search dirs", len(pinning), len(env.SearchDirs))

	code, err := scope.Run(env.Command(args))
	if err != nil {
		return err
	}
	logger.Printf("child exited with status %d", code)
	if code != 0 {
		return &ChildExit{Code: code}
	}
	return nil
}
