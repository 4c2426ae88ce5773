package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-Journal/pkg/capture"
	"github.com/fjglira/GoE2E-Journal/pkg/journal"
)

var assetsCmd = &cobra.Command{
	Use:       "assets [style|script|controls]",
	Short:     "Print the static CSS, script or summary controls for custom reports",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"style", "script", "controls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter, err := journal.New(capture.Unavailable, journal.Options{Logger: log})
		if err != nil {
			return err
		}

		switch args[0] {
		case "style":
			fmt.Fprint(cmd.OutOrStdout(), reporter.TemplateStyle())
		case "script":
			fmt.Fprint(cmd.OutOrStdout(), reporter.TemplateScript())
		case "controls":
			fmt.Fprint(cmd.OutOrStdout(), reporter.RenderSummaryControls())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}
