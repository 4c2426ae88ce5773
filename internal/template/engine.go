package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/fjglira/GoE2E-Journal/pkg/domain"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

//go:embed assets/journal.css
var journalStyle string

//go:embed assets/journal.js
var journalScript string

// TemplateEngine renders named HTML fragments.
type TemplateEngine interface {
	Render(name string, data any) (string, error)
	ListTemplates() []string
}

// DefaultEngine implements TemplateEngine over a filesystem of .tmpl files.
type DefaultEngine struct {
	templates   map[string]*template.Template
	fsys        fs.FS
	templateDir string
}

// NewEngine creates a new template engine, loading templates from dir inside fsys.
func NewEngine(fsys fs.FS, dir string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		fsys:        fsys,
		templateDir: dir,
	}

	if err := engine.loadTemplates(); err != nil {
		return nil, err
	}

	return engine, nil
}

// NewDefaultEngine loads the templates compiled into the binary.
func NewDefaultEngine() (*DefaultEngine, error) {
	return NewEngine(builtinTemplates, "templates")
}

// loadTemplates reads all .tmpl files from the template directory.
func (e *DefaultEngine) loadTemplates() error {
	entries, err := fs.ReadDir(e.fsys, e.templateDir)
	if err != nil {
		return domain.NewError("template", e.templateDir, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		p := path.Join(e.templateDir, entry.Name())
		content, err := fs.ReadFile(e.fsys, p)
		if err != nil {
			return domain.NewError("template", p, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("template", p, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	if len(e.templates) == 0 {
		return domain.NewError("template", e.templateDir, "no templates found", nil)
	}

	return nil
}

// Render executes the named template with data.
func (e *DefaultEngine) Render(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("template", "",
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("template", name, "failed to execute template", err)
	}
	return buf.String(), nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Style returns the stylesheet that lays out and toggles screenshots.
func Style() string {
	return journalStyle
}

// Script returns the script behind the screenshot toggles and summary controls.
func Script() string {
	return journalScript
}
