// Package journal decides which finished steps get a screenshot, stores the
// images next to the HTML report and accumulates the markup that embeds them.
package journal

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-Journal/internal/config"
	tmpl "github.com/fjglira/GoE2E-Journal/internal/template"
	"github.com/fjglira/GoE2E-Journal/pkg/capture"
	"github.com/fjglira/GoE2E-Journal/pkg/domain"
)

// TimestampLayout is the time part of screenshot file names.
const TimestampLayout = "2006-01-02 15.04.05"

// ErrNotInitialized is returned when a step is reported before OnReportInitialized.
var ErrNotInitialized = errors.New("reporter used before OnReportInitialized")

// Options configures a Reporter. Zero values fall back to defaults.
type Options struct {
	Mode           domain.CaptureMode // on_failure when empty
	FilePrefix     string
	CaptureTimeout time.Duration // no timeout when zero
	Clock          func() time.Time
	Logger         *logrus.Logger
	Engine         tmpl.TemplateEngine
}

// Reporter captures screenshots for finished steps. It is not safe for
// concurrent use; the host drives it one step at a time.
type Reporter struct {
	driver   capture.Driver
	mode     domain.CaptureMode
	prefix   string
	timeout  time.Duration
	now      func() time.Time
	log      *logrus.Logger
	engine   tmpl.TemplateEngine
	controls string

	initialized bool
	outputDir   string
	pending     strings.Builder
	lastHash    [sha256.Size]byte
	hasLast     bool
	stampSeq    map[string]int
	saved       []string
}

// New creates a Reporter. An unknown capture mode fails here rather than mid-run.
func New(driver capture.Driver, opts Options) (*Reporter, error) {
	if driver == nil {
		driver = capture.Unavailable
	}

	mode := domain.CaptureOnFailure
	if opts.Mode != "" {
		m, err := domain.ParseCaptureMode(string(opts.Mode))
		if err != nil {
			return nil, err
		}
		mode = m
	}

	if strings.ContainsAny(opts.FilePrefix, `/\*?[:`) {
		return nil, domain.NewErrorWithSuggestion("config", "",
			fmt.Sprintf("invalid file prefix %q", opts.FilePrefix),
			"use a plain file name prefix without path separators, colons or glob characters", nil)
	}

	r := &Reporter{
		driver:  driver,
		mode:    mode,
		prefix:  opts.FilePrefix,
		timeout: opts.CaptureTimeout,
		now:     opts.Clock,
		log:     opts.Logger,
		engine:  opts.Engine,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.log == nil {
		r.log = logrus.StandardLogger()
	}
	if r.engine == nil {
		engine, err := tmpl.NewDefaultEngine()
		if err != nil {
			return nil, err
		}
		r.engine = engine
	}

	controls, err := r.engine.Render("summary_controls", nil)
	if err != nil {
		return nil, err
	}
	r.controls = controls

	return r, nil
}

// NewFromConfig creates a Reporter from the capture section of cfg.
func NewFromConfig(cfg *config.Config, driver capture.Driver, log *logrus.Logger) (*Reporter, error) {
	mode, err := cfg.CaptureMode()
	if err != nil {
		return nil, err
	}
	return New(driver, Options{
		Mode:           mode,
		FilePrefix:     cfg.Capture.FilePrefix,
		CaptureTimeout: cfg.Capture.Timeout,
		Logger:         log,
	})
}

// Mode returns the capture mode the Reporter was built with.
func (r *Reporter) Mode() domain.CaptureMode {
	return r.mode
}

// OnReportInitialized starts a run: screenshots go to the directory holding
// reportOutputPath ("." when empty) and images left there by an earlier run
// are removed. Removal is best effort.
func (r *Reporter) OnReportInitialized(reportOutputPath string) {
	r.outputDir = OutputDirFor(reportOutputPath)

	r.initialized = true
	r.pending.Reset()
	r.hasLast = false
	r.stampSeq = make(map[string]int)
	r.saved = nil

	removed := 0
	for _, stale := range r.staleScreenshots() {
		if err := os.Remove(stale); err != nil {
			r.log.WithError(err).WithField("file", stale).Warn("Failed to remove stale screenshot")
			continue
		}
		removed++
	}
	r.log.WithFields(logrus.Fields{"dir": r.outputDir, "removed": removed}).Debug("Screenshot journal initialized")
}

// OutputDirFor returns the directory screenshots for a report at
// reportOutputPath are written to.
func OutputDirFor(reportOutputPath string) string {
	if reportOutputPath == "" {
		return "."
	}
	return filepath.Dir(reportOutputPath)
}

// staleScreenshots lists <prefix>*.png files in the output directory.
func (r *Reporter) staleScreenshots() []string {
	matches, err := filepath.Glob(filepath.Join(r.outputDir, r.prefix+"*.png"))
	if err != nil {
		r.log.WithError(err).Warn("Failed to list stale screenshots")
		return nil
	}
	return matches
}

// OnStepFinished captures a screenshot for the step when the mode asks for
// one. Capture faults become an inline notice and never fail the run; a
// screenshot that cannot be written does, since the markup would point at a
// missing file.
func (r *Reporter) OnStepFinished(ctx context.Context, outcome domain.StepOutcome) error {
	if !r.shouldCapture(outcome) {
		return nil
	}
	if !r.initialized {
		return domain.NewError("capture", "", "cannot capture screenshot", ErrNotInitialized)
	}

	attempt := r.capture(ctx)
	if attempt.Err != nil {
		r.log.WithError(attempt.Err).WithField("step", outcome.Description).Warn("Screenshot capture failed")
		return r.appendFragment("screenshot_error", map[string]string{
			"Step":    outcome.Description,
			"Message": attempt.Err.Error(),
		})
	}
	if !attempt.Available() {
		r.log.WithField("step", outcome.Description).Debug("No screenshot available")
		return nil
	}

	var sum [sha256.Size]byte
	if r.mode.SkipsDuplicates() {
		sum = sha256.Sum256(attempt.Image)
		if r.hasLast && sum == r.lastHash {
			r.log.WithField("step", outcome.Description).Debug("Skipping duplicate screenshot")
			return nil
		}
	}

	fileName := r.nextFileName()
	if err := r.write(fileName, attempt.Image); err != nil {
		return err
	}
	if r.mode.SkipsDuplicates() {
		r.lastHash = sum
		r.hasLast = true
	}
	r.saved = append(r.saved, fileName)
	r.log.WithFields(logrus.Fields{"step": outcome.Description, "file": fileName}).Debug("Saved screenshot")

	return r.appendFragment("screenshot", map[string]any{
		"FileName": imageSource(fileName),
		"Alt":      outcome.Description,
	})
}

// imageSource is the img src for a file next to the report. The explicit
// relative path keeps a file name from ever reading as a URL scheme.
func imageSource(fileName string) template.URL {
	return template.URL("./" + url.PathEscape(fileName))
}

func (r *Reporter) shouldCapture(outcome domain.StepOutcome) bool {
	return r.mode.CapturesEveryStep() || outcome.Status == domain.StepFailed
}

// capture asks the driver for an image. Unavailability yields an empty
// attempt; a panicking driver is reported like any other capture fault.
func (r *Reporter) capture(ctx context.Context) (attempt domain.CaptureAttempt) {
	defer func() {
		if p := recover(); p != nil {
			attempt = domain.CaptureAttempt{Err: fmt.Errorf("capture driver panicked: %v", p)}
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	img, err := r.driver.Screenshot(ctx)
	if errors.Is(err, capture.ErrUnavailable) {
		return domain.CaptureAttempt{}
	}
	return domain.CaptureAttempt{Image: img, Err: err}
}

// nextFileName returns <prefix><timestamp>.png, adding -2, -3, ... when
// several screenshots fall into the same second.
func (r *Reporter) nextFileName() string {
	stamp := r.now().Format(TimestampLayout)
	r.stampSeq[stamp]++
	name := r.prefix + stamp
	if n := r.stampSeq[stamp]; n > 1 {
		name += fmt.Sprintf("-%d", n)
	}
	return name + ".png"
}

func (r *Reporter) write(fileName string, image []byte) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return domain.NewErrorWithSuggestion("write", r.outputDir,
			"failed to create screenshot directory",
			"check that the report output directory is writable", err)
	}
	path := filepath.Join(r.outputDir, fileName)
	if err := os.WriteFile(path, image, 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", path,
			"failed to write screenshot",
			"check disk space and write permissions for the report output directory", err)
	}
	return nil
}

func (r *Reporter) appendFragment(name string, data any) error {
	fragment, err := r.engine.Render(name, data)
	if err != nil {
		return domain.NewError("render", "", "failed to render screenshot markup", err)
	}
	r.pending.WriteString(fragment)
	return nil
}

// FlushPendingMarkup returns the markup collected since the last flush and clears it.
func (r *Reporter) FlushPendingMarkup() string {
	markup := r.pending.String()
	r.pending.Reset()
	return markup
}

// RenderOutlineExampleRow flushes the pending markup into a table row that
// follows an outline example row with the given number of cells.
func (r *Reporter) RenderOutlineExampleRow(columns int) (string, error) {
	row, err := r.engine.Render("outline_example_screenshots", struct {
		Colspan int
		Markup  template.HTML
	}{
		Colspan: columns + 1,
		Markup:  template.HTML(r.FlushPendingMarkup()),
	})
	if err != nil {
		return "", domain.NewError("render", "", "failed to render outline example screenshots", err)
	}
	return row, nil
}

// RenderSummaryControls returns the show/maximize/minimize/hide links for the run summary.
func (r *Reporter) RenderSummaryControls() string {
	return r.controls
}

// TemplateStyle returns the CSS the report needs for screenshot markup.
func (r *Reporter) TemplateStyle() string {
	return tmpl.Style()
}

// TemplateScript returns the script behind the screenshot toggles.
func (r *Reporter) TemplateScript() string {
	return tmpl.Script()
}

// OutputDirectory is where screenshots are written.
func (r *Reporter) OutputDirectory() string {
	return r.outputDir
}

// SavedFiles returns the screenshot file names written in the current run, oldest first.
func (r *Reporter) SavedFiles() []string {
	return append([]string(nil), r.saved...)
}
