package template_test

import (
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	tmpl "github.com/fjglira/GoE2E-Journal/internal/template"
)

var _ = Describe("TemplateEngine", func() {
	var engine *tmpl.DefaultEngine

	BeforeEach(func() {
		var err error
		engine, err = tmpl.NewDefaultEngine()
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("ListTemplates", func() {
		It("should list the built-in fragments", func() {
			Expect(engine.ListTemplates()).To(ContainElements(
				"screenshot", "screenshot_error", "summary_controls", "outline_example_screenshots", "report"))
		})
	})

	Describe("Render", func() {
		It("should render a screenshot fragment", func() {
			out, err := engine.Render("screenshot", map[string]string{"FileName": "shot.png", "Alt": "Given a step"})
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(`<div class="screenshot"><img src="shot.png" alt="Given a step" /></div>`))
		})

		It("should escape error notices", func() {
			out, err := engine.Render("screenshot_error", map[string]string{
				"Step":    "I open <b>home</b>",
				"Message": `driver said "<script>alert(1)</script>"`,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(out).ToNot(ContainSubstring("<script>"))
			Expect(out).ToNot(ContainSubstring("<b>"))
			Expect(out).To(ContainSubstring("&lt;script&gt;"))
			Expect(out).To(ContainSubstring("Error while taking screenshot for I open &lt;b&gt;home&lt;/b&gt;"))
		})

		It("should fail for an unknown template", func() {
			_, err := engine.Render("missing", nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`template "missing" not found`))
		})
	})

	Describe("NewEngine", func() {
		It("should load templates from any filesystem", func() {
			fsys := fstest.MapFS{
				"tpl/hello.tmpl": {Data: []byte(`<p>{{.}}</p>`)},
				"tpl/notes.txt":  {Data: []byte("ignored")},
			}
			e, err := tmpl.NewEngine(fsys, "tpl")
			Expect(err).ToNot(HaveOccurred())
			Expect(e.ListTemplates()).To(Equal([]string{"hello"}))

			out, err := e.Render("hello", "a & b")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal("<p>a &amp; b</p>"))
		})

		It("should fail when no templates exist", func() {
			_, err := tmpl.NewEngine(fstest.MapFS{"tpl/readme.md": {Data: []byte("x")}}, "tpl")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no templates found"))
		})

		It("should fail for a broken template", func() {
			_, err := tmpl.NewEngine(fstest.MapFS{"tpl/bad.tmpl": {Data: []byte("{{.Broken")}}, "tpl")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse template"))
		})
	})

	Describe("CustomFuncMap", func() {
		It("should offer the functions the report uses", func() {
			Expect(tmpl.CustomFuncMap()).To(HaveLen(2))
			Expect(tmpl.CustomFuncMap()).To(HaveKey("trimSpace"))
			Expect(tmpl.CustomFuncMap()).To(HaveKey("markdown"))
		})
	})

	Describe("Markdown", func() {
		It("should render gherkin descriptions", func() {
			out := tmpl.Markdown("As a *shopper*\n    I want `checkout`")
			Expect(string(out)).To(ContainSubstring("<em>shopper</em>"))
			Expect(string(out)).To(ContainSubstring("<code>checkout</code>"))
		})

		It("should drop raw HTML", func() {
			out := tmpl.Markdown("<script>alert(1)</script>")
			Expect(string(out)).ToNot(ContainSubstring("<script>"))
		})

		It("should return nothing for blank input", func() {
			Expect(tmpl.Markdown("   ")).To(BeEmpty())
		})
	})

	Describe("assets", func() {
		It("should expose the toggle style and script", func() {
			Expect(tmpl.Style()).To(ContainSubstring(".full-size-screenshot"))
			Expect(tmpl.Script()).To(ContainSubstring("showScreenshots"))
		})
	})
})
