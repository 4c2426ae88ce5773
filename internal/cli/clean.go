package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-Journal/pkg/capture"
	"github.com/fjglira/GoE2E-Journal/pkg/journal"
)

var cleanReport string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove screenshots left next to the report by an earlier run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("report") {
			cfg.Report.OutputPath = cleanReport
		}

		reporter, err := journal.NewFromConfig(cfg, capture.Unavailable, log)
		if err != nil {
			return err
		}
		reporter.OnReportInitialized(cfg.Report.OutputPath)

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s*.png from %s\n", cfg.Capture.FilePrefix, reporter.OutputDirectory())
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanReport, "report", "", "report path (overrides report.output_path)")
	rootCmd.AddCommand(cleanCmd)
}
