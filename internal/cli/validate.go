package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-Journal/internal/config"
	"github.com/fjglira/GoE2E-Journal/pkg/domain"
	"github.com/fjglira/GoE2E-Journal/pkg/journal"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check journal.yaml and show where screenshots will go",
	Long: `Loads the configuration file, checks every setting and prints the capture
mode and the directory screenshots will be written to. Nothing is captured or
removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		mode, err := cfg.CaptureMode()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: ok\n", cfgFile)
		fmt.Fprintf(w, "  capture:     %s (%s)\n", mode, describeMode(mode))
		fmt.Fprintf(w, "  screenshots: %s/%s*.png\n", journal.OutputDirFor(cfg.Report.OutputPath), cfg.Capture.FilePrefix)
		if cfg.Capture.Timeout > 0 {
			fmt.Fprintf(w, "  timeout:     %s\n", cfg.Capture.Timeout)
		}
		return nil
	},
}

func describeMode(mode domain.CaptureMode) string {
	var parts []string
	if mode.CapturesEveryStep() {
		parts = append(parts, "every step")
	} else {
		parts = append(parts, "failed steps only")
	}
	if mode.SkipsDuplicates() {
		parts = append(parts, "identical consecutive screenshots skipped")
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
