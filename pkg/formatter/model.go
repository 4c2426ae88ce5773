package formatter

import (
	"html/template"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/fjglira/GoE2E-Journal/pkg/domain"
)

// The *View types are what the report template renders.

type reportView struct {
	Title    string
	Style    template.CSS
	Script   template.JS
	Features []*featureView
	Summary  summaryView
}

type summaryView struct {
	Status          string
	Scenarios       int
	PassedScenarios int
	FailedScenarios int
	Steps           int
	PassedSteps     int
	FailedSteps     int
	OtherSteps      int
	Error           string
	Controls        template.HTML
}

type featureView struct {
	Keyword     string
	Name        string
	Description string
	Backgrounds []*backgroundView
	Scenarios   []*scenarioView
}

type backgroundView struct {
	Keyword string
	Name    string
	Steps   []*stepView
}

type scenarioView struct {
	Keyword      string
	Name         string
	Description  string
	Status       string
	Outline      bool
	Steps        []*stepView
	OutlineSteps []*stepView
	Examples     []*examplesView
	Screenshots  template.HTML
}

// attach adds markup to the last step row, or to the scenario itself when
// none of its steps has a row.
func (v *scenarioView) attach(markup template.HTML) {
	if n := len(v.Steps); n > 0 && !v.Outline {
		v.Steps[n-1].Screenshots += markup
		return
	}
	v.Screenshots += markup
}

type examplesView struct {
	Keyword string
	Name    string
	Header  []string
	Rows    []*exampleRowView
}

type exampleRowView struct {
	Cells       []string
	Colspan     int
	Status      string
	Errors      []string
	Screenshots template.HTML
}

type stepView struct {
	Keyword     string
	Text        string
	Status      string
	Error       string
	Screenshots template.HTML
}

// rowRef locates an examples table row inside an outline.
type rowRef struct {
	scenarioID string
	examples   int
	cells      []string
}

// featureState indexes one gherkin document so pickles can be mapped back
// to the scenarios, backgrounds and example rows they came from.
type featureState struct {
	view      *featureView
	scenarios map[string]*messages.Scenario
	views     map[string]*scenarioView
	steps     map[string]*messages.Step
	rows      map[string]rowRef

	// background step id -> background view, and which pickle printed it
	backgroundOf    map[string]*backgroundView
	backgroundOwner map[*backgroundView]string
}

func newFeatureState(doc *messages.GherkinDocument) *featureState {
	fs := &featureState{
		view:            &featureView{},
		scenarios:       make(map[string]*messages.Scenario),
		views:           make(map[string]*scenarioView),
		steps:           make(map[string]*messages.Step),
		rows:            make(map[string]rowRef),
		backgroundOf:    make(map[string]*backgroundView),
		backgroundOwner: make(map[*backgroundView]string),
	}
	if doc == nil || doc.Feature == nil {
		return fs
	}

	feature := doc.Feature
	fs.view.Keyword = feature.Keyword
	fs.view.Name = feature.Name
	fs.view.Description = feature.Description

	for _, child := range feature.Children {
		switch {
		case child.Background != nil:
			fs.addBackground(child.Background)
		case child.Scenario != nil:
			fs.addScenario(child.Scenario)
		case child.Rule != nil:
			for _, rc := range child.Rule.Children {
				if rc.Background != nil {
					fs.addBackground(rc.Background)
				}
				if rc.Scenario != nil {
					fs.addScenario(rc.Scenario)
				}
			}
		}
	}
	return fs
}

func (fs *featureState) addBackground(bg *messages.Background) {
	view := &backgroundView{Keyword: bg.Keyword, Name: bg.Name}
	for _, step := range bg.Steps {
		fs.steps[step.Id] = step
		fs.backgroundOf[step.Id] = view
	}
}

func (fs *featureState) addScenario(sc *messages.Scenario) {
	fs.scenarios[sc.Id] = sc
	for _, step := range sc.Steps {
		fs.steps[step.Id] = step
	}
	for i, ex := range sc.Examples {
		for _, row := range ex.TableBody {
			fs.rows[row.Id] = rowRef{scenarioID: sc.Id, examples: i, cells: cellValues(row)}
		}
	}
}

// scenarioView returns the view for a scenario, creating it on first use
// so that only scenarios that actually ran appear in the report.
func (fs *featureState) scenarioView(id string, pickle *messages.Pickle) *scenarioView {
	if view, ok := fs.views[id]; ok {
		return view
	}

	view := &scenarioView{Keyword: "Scenario", Name: pickle.Name, Status: string(domain.StepPassed)}
	if sc, ok := fs.scenarios[id]; ok {
		view.Keyword = sc.Keyword
		view.Name = sc.Name
		view.Description = sc.Description
		if len(sc.Examples) > 0 {
			view.Outline = true
			for _, step := range sc.Steps {
				view.OutlineSteps = append(view.OutlineSteps, &stepView{Keyword: step.Keyword, Text: step.Text})
			}
			for _, ex := range sc.Examples {
				ev := &examplesView{Keyword: ex.Keyword, Name: ex.Name}
				if ex.TableHeader != nil {
					ev.Header = cellValues(ex.TableHeader)
				}
				view.Examples = append(view.Examples, ev)
			}
		}
	}

	fs.views[id] = view
	fs.view.Scenarios = append(fs.view.Scenarios, view)
	return view
}

// exampleRow appends the row a pickle was compiled from to its examples table.
func (fs *featureState) exampleRow(scenario *scenarioView, rowID string) *exampleRowView {
	ref, ok := fs.rows[rowID]
	if !ok || ref.examples >= len(scenario.Examples) {
		return nil
	}
	row := &exampleRowView{
		Cells:   ref.cells,
		Colspan: len(ref.cells) + 1,
		Status:  string(domain.StepPassed),
	}
	ex := scenario.Examples[ref.examples]
	ex.Rows = append(ex.Rows, row)
	return row
}

func (fs *featureState) keyword(stepID string) string {
	if step, ok := fs.steps[stepID]; ok {
		return step.Keyword
	}
	return ""
}

func cellValues(row *messages.TableRow) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.Value
	}
	return cells
}

// worse returns the more severe of two statuses for aggregating scenario results.
func worse(a, b string) string {
	if severity(b) > severity(a) {
		return b
	}
	return a
}

func severity(status string) int {
	switch domain.StepStatus(status) {
	case domain.StepFailed:
		return 5
	case domain.StepAmbiguous:
		return 4
	case domain.StepUndefined:
		return 3
	case domain.StepPending:
		return 2
	case domain.StepSkipped:
		return 1
	case domain.StepPassed:
		return 0
	default:
		return -1
	}
}
