package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"verune/internal/check"
	"verune/internal/logx"
	"verune/internal/registry"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every pinned runtime version exists",
		Long: "Runs the same load, merge, and registry resolution as scope, but " +
			"collects every problem into a report instead of stopping at the first one.",
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
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
	logger.Printf("verune check: root=%s config=%s", root, configPath)

	report := check.Run(registry.New(root), check.Options{
		ConfigPath:   configPath,
		EnvOverlays:  envOverlays,
		FlagOverlays: overlayFlags,
		Replacements: replaceFlags,
	})
	logger.Printf("check verdict=%s findings=%d", report.Verdict(), len(report.Findings))

	if outputJSON {
		payload := struct {
			Root    string          `json:"root"`
			Config  string          `json:"config"`
			Verdict string          `json:"verdict"`
			Report  []check.Finding `json:"findings"`
		}{
			Root:    root,
			Config:  configPath,
			Verdict: report.Verdict().String(),
			Report:  report.Findings,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printReport(cmd, root, configPath, report)
	}

	if report.Verdict() == check.Error {
		return errors.New("issues above must be resolved before runtimes can be scoped safely")
	}
	return nil
}

func printReport(cmd *cobra.Command, root, configPath string, report check.Report) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)

	cmd.Println(bold.Render("Runtime root:") + " " + root)
	cmd.Println(bold.Render("Configuration:") + " " + configPath)
	cmd.Println()

	for _, f := range report.Findings {
		var mark string
		switch f.Severity {
		case check.OK:
			mark = green.Render("✓")
		case check.Warn:
			mark = yellow.Render("!")
		default:
			mark = red.Render("✗")
		}
		line := mark + " "
		if f.Runtime != "" {
			line += bold.Render(f.Runtime) + " "
		}
		line += f.Message
		cmd.Println(line)
	}

	cmd.Println()
	switch report.Verdict() {
	case check.OK:
		cmd.Println(green.Render("All runtimes are properly installed"))
	case check.Warn:
		cmd.Println(yellow.Render("Usable, with warnings") + faint.Render(" (see above)"))
	default:
		cmd.Println(red.Render("Problems found"))
	}
}
