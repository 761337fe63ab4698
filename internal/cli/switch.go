package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"verune/internal/config"
	"verune/internal/logx"
	"verune/internal/registry"
)

var switchSkipCheck bool

func newSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch <runtime> <version>",
		Short: "Switch a runtime's pinned version",
		Long: "Switches a runtime's pinned version in the project configuration. " +
			"By default the version's installation is verified first; use " +
			"--skip-check to pin a version that is not installed yet.",
		Args: cobra.ExactArgs(2),
		RunE: runSwitch,
	}

	cmd.Flags().BoolVarP(&switchSkipCheck, "skip-check", "u", false, "Skip verifying the version's installation")

	return cmd
}

func runSwitch(cmd *cobra.Command, args []string) error {
	root, configPath, _, err := resolveInputs()
	if err != nil {
		return err
	}
	runtime, version := args[0], args[1]

	logger, closer, logErr := logx.New(root)
	if logErr != nil {
		logger = logx.Discard()
	} else {
		defer closer.Close()
	}
	logger.Printf("verune switch: runtime=%s version=%s skip-check=%t config=%s",
		runtime, version, switchSkipCheck, configPath)

	if err := config.Switch(registry.New(root), configPath, runtime, version, switchSkipCheck); err != nil {
		return err
	}

	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cmd.Printf("%s switched runtime %q to version %s\n", green.Render("✓"), runtime, version)
	return nil
}
