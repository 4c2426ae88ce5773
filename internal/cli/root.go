package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-Journal/internal/config"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
)

// rootCmd is the base command for journal.
var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Screenshot journal for BDD HTML reports",
	Long: `GoE2E-Journal captures screenshots while godog scenarios run and embeds
them into the HTML report next to the steps that produced them.

The commands here manage the screenshot directory and configuration
(journal.yaml) outside of a test run.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "journal.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads and validates the config file, then applies its logging
// section. A missing default config file falls back to built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if _, err := os.Stat(cfgFile); err == nil || cmd.Flags().Changed("config") {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		log.Debugf("No config file at %s, using defaults", cfgFile)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := applyLogging(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyLogging(lc config.LoggingConfig) error {
	if !verbose && lc.Level != "" {
		level, err := logrus.ParseLevel(lc.Level)
		if err != nil {
			return fmt.Errorf("invalid logging.level: %w", err)
		}
		log.SetLevel(level)
	}
	if lc.File != "" {
		if err := os.MkdirAll(filepath.Dir(lc.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
	}
	return nil
}
