package cli

import (
	"github.com/spf13/cobra"

	"verune/internal/logx"
	"verune/internal/registry"
)

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <runtime>",
		Short: "Create template metadata for a runtime",
		Long: "Creates a blank metadata file for a runtime under the runtime root, " +
			"ready to be filled in with a display name and search paths.",
		Args: cobra.ExactArgs(1),
		RunE: runTemplate,
	}
}

func runTemplate(cmd *cobra.Command, args []string) error {
	root, _, _, err := resolveInputs()
	if err != nil {
		return err
	}
	name := args[0]

	logger, closer, logErr := logx.New(root)
	if logErr != nil {
		logger = logx.Discard()
	} else {
		defer closer.Close()
	}

	metaPath, err := registry.New(root).WriteTemplate(name)
	if err != nil {
		return err
	}
	logger.Printf("verune template: wrote %s", metaPath)

	cmd.Printf("wrote metadata template for runtime %q to %s\n", name, metaPath)
	return nil
}
