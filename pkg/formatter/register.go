package formatter

import (
	"io"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/formatters"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-Journal/internal/config"
	tmpl "github.com/fjglira/GoE2E-Journal/internal/template"
	"github.com/fjglira/GoE2E-Journal/pkg/capture"
	"github.com/fjglira/GoE2E-Journal/pkg/journal"
)

// DefaultName is the godog format name used by Register callers that have no preference.
const DefaultName = "journal"

const formatDescription = "HTML report with step screenshots"

// Register makes reporter available to godog as the format name. An empty
// opts.Title falls back to the suite name.
func Register(name string, reporter *journal.Reporter, opts Options) error {
	if opts.Engine == nil {
		engine, err := tmpl.NewDefaultEngine()
		if err != nil {
			return err
		}
		opts.Engine = engine
	}

	godog.Format(name, formatDescription, func(suite string, out io.Writer) formatters.Formatter {
		o := opts
		if o.Title == "" {
			o.Title = suite
		}
		// Cannot fail: the engine is already loaded.
		f, _ := New(out, reporter, o)
		return f
	})
	return nil
}

// RegisterFile loads a journal.yaml file and registers the journal under name.
//
//	capture.NewPlaywrightDriver(page, false)
//	formatter.RegisterFile(formatter.DefaultName, "journal.yaml", driver, logrus.StandardLogger())
//	godog.TestSuite{Options: &godog.Options{Format: formatter.DefaultName}}.Run()
func RegisterFile(name, path string, driver capture.Driver, log *logrus.Logger) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	return RegisterConfig(name, cfg, driver, log)
}

// RegisterConfig registers the journal from an already loaded configuration.
// The configuration is checked here so a bad capture mode fails before the run.
func RegisterConfig(name string, cfg *config.Config, driver capture.Driver, log *logrus.Logger) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	reporter, err := journal.NewFromConfig(cfg, driver, log)
	if err != nil {
		return err
	}
	return Register(name, reporter, Options{
		Title:      cfg.Report.Title,
		ReportPath: cfg.Report.OutputPath,
		Logger:     log,
	})
}
