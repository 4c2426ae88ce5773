// Package formatter hosts the screenshot journal inside a godog run: it is a
// godog formatter that builds an HTML report and lets the journal attach
// screenshots to step rows and outline example rows.
package formatter

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"sync"

	"github.com/cucumber/godog/formatters"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/sirupsen/logrus"

	tmpl "github.com/fjglira/GoE2E-Journal/internal/template"
	"github.com/fjglira/GoE2E-Journal/pkg/domain"
	"github.com/fjglira/GoE2E-Journal/pkg/journal"
)

// Options configures an HTMLFormatter.
type Options struct {
	Title      string
	ReportPath string // screenshots are stored next to this file
	Logger     *logrus.Logger
	Engine     tmpl.TemplateEngine
}

// HTMLFormatter implements formatters.Formatter. godog may call it from
// several goroutines; calls are serialized, but screenshots are only
// attributed correctly when scenarios run one at a time.
type HTMLFormatter struct {
	mu       sync.Mutex
	out      io.Writer
	reporter *journal.Reporter
	engine   tmpl.TemplateEngine
	log      *logrus.Logger
	opts     Options

	features []*featureView
	byURI    map[string]*featureState
	pickles  map[string]*pickleState
	open     []*pickleState
	summary  summaryView
	err      error
}

// pickleState tracks one running scenario or outline example.
type pickleState struct {
	pickle   *messages.Pickle
	feature  *featureState
	scenario *scenarioView
	example  *exampleRowView
	status   string
}

var _ formatters.Formatter = (*HTMLFormatter)(nil)

// New creates an HTMLFormatter writing the report to out.
func New(out io.Writer, reporter *journal.Reporter, opts Options) (*HTMLFormatter, error) {
	if opts.Engine == nil {
		engine, err := tmpl.NewDefaultEngine()
		if err != nil {
			return nil, err
		}
		opts.Engine = engine
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Title == "" {
		opts.Title = "Test journal"
	}
	return &HTMLFormatter{
		out:      out,
		reporter: reporter,
		engine:   opts.Engine,
		log:      opts.Logger,
		opts:     opts,
		byURI:    make(map[string]*featureState),
		pickles:  make(map[string]*pickleState),
	}, nil
}

// Err returns the error that stopped the journal, if any.
func (f *HTMLFormatter) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// TestRunStarted starts a fresh screenshot run next to the report.
func (f *HTMLFormatter) TestRunStarted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reporter.OnReportInitialized(f.opts.ReportPath)
	f.log.WithField("dir", f.reporter.OutputDirectory()).Info("Screenshot journal started")
}

// Feature indexes a gherkin document.
func (f *HTMLFormatter) Feature(doc *messages.GherkinDocument, uri string, _ []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byURI[uri]; ok {
		return
	}
	fs := newFeatureState(doc)
	f.byURI[uri] = fs
	f.features = append(f.features, fs.view)
}

// Pickle starts a scenario or an outline example.
func (f *HTMLFormatter) Pickle(p *messages.Pickle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishOpen()

	fs, ok := f.byURI[p.Uri]
	if !ok {
		fs = newFeatureState(nil)
		fs.view.Keyword = "Feature"
		fs.view.Name = p.Uri
		f.byURI[p.Uri] = fs
		f.features = append(f.features, fs.view)
	}

	scenarioID := p.Id
	if len(p.AstNodeIds) > 0 {
		scenarioID = p.AstNodeIds[0]
	}
	ps := &pickleState{
		pickle:   p,
		feature:  fs,
		scenario: fs.scenarioView(scenarioID, p),
		status:   string(domain.StepPassed),
	}
	if len(p.AstNodeIds) > 1 {
		ps.example = fs.exampleRow(ps.scenario, p.AstNodeIds[1])
	}

	f.pickles[p.Id] = ps
	f.open = append(f.open, ps)
	f.summary.Scenarios++
}

// Defined is called before a step runs; nothing to record yet.
func (f *HTMLFormatter) Defined(*messages.Pickle, *messages.PickleStep, *formatters.StepDefinition) {}

func (f *HTMLFormatter) Passed(p *messages.Pickle, s *messages.PickleStep, _ *formatters.StepDefinition) {
	f.step(p, s, domain.StepPassed, nil)
}

func (f *HTMLFormatter) Failed(p *messages.Pickle, s *messages.PickleStep, _ *formatters.StepDefinition, err error) {
	f.step(p, s, domain.StepFailed, err)
}

func (f *HTMLFormatter) Skipped(p *messages.Pickle, s *messages.PickleStep, _ *formatters.StepDefinition) {
	f.step(p, s, domain.StepSkipped, nil)
}

func (f *HTMLFormatter) Undefined(p *messages.Pickle, s *messages.PickleStep, _ *formatters.StepDefinition) {
	f.step(p, s, domain.StepUndefined, nil)
}

func (f *HTMLFormatter) Pending(p *messages.Pickle, s *messages.PickleStep, _ *formatters.StepDefinition) {
	f.step(p, s, domain.StepPending, nil)
}

func (f *HTMLFormatter) Ambiguous(p *messages.Pickle, s *messages.PickleStep, _ *formatters.StepDefinition, err error) {
	f.step(p, s, domain.StepAmbiguous, err)
}

// step records a finished step. The journal runs first so its markup is
// ready when the step's row is written.
func (f *HTMLFormatter) step(p *messages.Pickle, s *messages.PickleStep, status domain.StepStatus, stepErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ps, ok := f.pickles[p.Id]
	if !ok {
		f.log.WithField("scenario", p.Name).Warn("Step reported for unknown scenario")
		return
	}

	f.countStep(status)
	ps.status = worse(ps.status, string(status))

	if f.err == nil {
		if err := f.reporter.OnStepFinished(context.Background(), domain.StepOutcome{
			Status:      status,
			Description: s.Text,
		}); err != nil {
			f.err = err
			f.log.WithError(err).Error("Screenshot journal stopped")
		}
	}

	var errText string
	if stepErr != nil {
		errText = stepErr.Error()
	}

	var astID string
	if len(s.AstNodeIds) > 0 {
		astID = s.AstNodeIds[0]
	}
	row := &stepView{
		Keyword: ps.feature.keyword(astID),
		Text:    s.Text,
		Status:  string(status),
		Error:   errText,
	}

	if bg, ok := ps.feature.backgroundOf[astID]; ok {
		owner, printed := ps.feature.backgroundOwner[bg]
		if !printed {
			ps.feature.backgroundOwner[bg] = p.Id
			ps.feature.view.Backgrounds = append(ps.feature.view.Backgrounds, bg)
			owner = p.Id
		}
		if owner == p.Id {
			row.Screenshots = template.HTML(f.reporter.FlushPendingMarkup())
			bg.Steps = append(bg.Steps, row)
			return
		}
		// Already printed for an earlier scenario: hide the row and let the
		// markup travel to the next visible one, unless it carries a problem.
		if status == domain.StepPassed || status == domain.StepSkipped {
			return
		}
	}

	if ps.example != nil {
		ps.example.Status = worse(ps.example.Status, string(status))
		if errText != "" {
			ps.example.Errors = append(ps.example.Errors, errText)
		}
		return
	}

	row.Screenshots = template.HTML(f.reporter.FlushPendingMarkup())
	ps.scenario.Steps = append(ps.scenario.Steps, row)
}

func (f *HTMLFormatter) countStep(status domain.StepStatus) {
	f.summary.Steps++
	switch status {
	case domain.StepPassed:
		f.summary.PassedSteps++
	case domain.StepFailed:
		f.summary.FailedSteps++
	default:
		f.summary.OtherSteps++
	}
}

// finishOpen closes every started pickle: outline examples get their
// screenshot row, markup still pending goes to the scenario that produced it
// and scenario results are counted.
func (f *HTMLFormatter) finishOpen() {
	for _, ps := range f.open {
		if ps.example != nil {
			row, err := f.reporter.RenderOutlineExampleRow(len(ps.example.Cells))
			if err != nil {
				f.log.WithError(err).Warn("Failed to render outline example screenshots")
			}
			ps.example.Screenshots = template.HTML(row)
		} else if markup := f.reporter.FlushPendingMarkup(); markup != "" {
			// hidden background steps with no visible step after them
			ps.scenario.attach(template.HTML(markup))
		}
		ps.scenario.Status = worse(ps.scenario.Status, ps.status)
		if ps.status == string(domain.StepFailed) {
			f.summary.FailedScenarios++
		} else if ps.status == string(domain.StepPassed) {
			f.summary.PassedScenarios++
		}
		delete(f.pickles, ps.pickle.Id)
	}
	f.open = nil
}

// Summary writes the whole report.
func (f *HTMLFormatter) Summary() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishOpen()

	f.summary.Status = string(domain.StepPassed)
	if f.summary.FailedScenarios > 0 || f.err != nil {
		f.summary.Status = string(domain.StepFailed)
	}
	if f.err != nil {
		f.summary.Error = f.err.Error()
	}
	f.summary.Controls = template.HTML(f.reporter.RenderSummaryControls())

	report, err := f.engine.Render("report", reportView{
		Title:    f.opts.Title,
		Style:    template.CSS(f.reporter.TemplateStyle()),
		Script:   template.JS(f.reporter.TemplateScript()),
		Features: f.features,
		Summary:  f.summary,
	})
	if err != nil {
		f.log.WithError(err).Error("Failed to render journal report")
		fmt.Fprintf(f.out, "<!-- journal report failed: %s -->\n", html.EscapeString(err.Error()))
		return
	}
	if _, err := io.WriteString(f.out, report); err != nil {
		f.log.WithError(err).Error("Failed to write journal report")
	}
}
