package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-Journal/pkg/capture"
	"github.com/fjglira/GoE2E-Journal/pkg/domain"
	"github.com/fjglira/GoE2E-Journal/pkg/journal"
)

var (
	captureURL      string
	captureReport   string
	capturePrefix   string
	captureHeadless bool
	captureWidth    int
	captureHeight   int
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a page with headless Chrome and print the journal markup",
	Long: `Opens the URL in Chrome, saves a screenshot next to the report the same way a
test run would, and prints the HTML fragment that embeds it.

Earlier captures with the same prefix are removed first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("report") {
			cfg.Report.OutputPath = captureReport
		}

		browserCtx, cancel := capture.NewBrowserContext(captureHeadless, captureWidth, captureHeight)
		defer cancel()

		log.Infof("Opening %s", captureURL)
		if err := capture.Navigate(browserCtx, captureURL); err != nil {
			return fmt.Errorf("failed to open %s: %w", captureURL, err)
		}

		reporter, err := journal.New(capture.NewChromeDriver(browserCtx, cfg.Capture.FullPage), journal.Options{
			Mode:           domain.CaptureAlways,
			FilePrefix:     capturePrefix,
			CaptureTimeout: cfg.Capture.Timeout,
			Logger:         log,
		})
		if err != nil {
			return err
		}
		reporter.OnReportInitialized(cfg.Report.OutputPath)

		if err := reporter.OnStepFinished(context.Background(), domain.StepOutcome{
			Status:      domain.StepPassed,
			Description: captureURL,
		}); err != nil {
			return err
		}

		markup := reporter.FlushPendingMarkup()
		if len(reporter.SavedFiles()) == 0 {
			log.Warn("No screenshot was saved")
		}
		fmt.Fprintln(cmd.OutOrStdout(), markup)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureURL, "url", "", "URL to capture (required)")
	captureCmd.Flags().StringVar(&captureReport, "report", "", "report path (overrides report.output_path)")
	captureCmd.Flags().StringVar(&capturePrefix, "prefix", "capture_", "file name prefix for the screenshot")
	captureCmd.Flags().BoolVar(&captureHeadless, "headless", true, "run Chrome without a window")
	captureCmd.Flags().IntVar(&captureWidth, "width", 1280, "browser window width")
	captureCmd.Flags().IntVar(&captureHeight, "height", 800, "browser window height")
	_ = captureCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(captureCmd)
}
