package cli

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

var _ = Describe("CLI", func() {
	minimal := filepath.Join("..", "..", "testdata", "configs", "minimal.yaml")

	Describe("validate", func() {
		It("should accept a valid config and show the capture setup", func() {
			out, err := run("validate", "--config", minimal)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring(minimal + ": ok"))
			Expect(out).To(ContainSubstring("capture:     always (every step)"))
			Expect(out).To(ContainSubstring("screenshots: ./screenshot_*.png"))
		})

		It("should resolve the screenshot directory from the report path", func() {
			out, err := run("validate", "--config", filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("on_failure_skip_duplicates (failed steps only, identical consecutive screenshots skipped)"))
			Expect(out).To(ContainSubstring("screenshots: reports/journal_*.png"))
			Expect(out).To(ContainSubstring("timeout:     5s"))
		})

		It("should reject an invalid config", func() {
			bad := filepath.Join(GinkgoT().TempDir(), "journal.yaml")
			Expect(os.WriteFile(bad, []byte("capture:\n  mode: sometimes\n"), 0644)).To(Succeed())

			_, err := run("validate", "--config", bad)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("capture.mode"))
		})
	})

	Describe("clean", func() {
		It("should remove stale screenshots next to the report", func() {
			dir := GinkgoT().TempDir()
			stale := filepath.Join(dir, "screenshot_2020-01-01 00.00.00.png")
			keep := filepath.Join(dir, "logo.png")
			Expect(os.WriteFile(stale, []byte("old"), 0644)).To(Succeed())
			Expect(os.WriteFile(keep, []byte("logo"), 0644)).To(Succeed())

			out, err := run("clean", "--config", minimal, "--report", filepath.Join(dir, "journal.html"))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring(dir))
			Expect(stale).ToNot(BeAnExistingFile())
			Expect(keep).To(BeAnExistingFile())
		})
	})

	Describe("assets", func() {
		It("should print the summary controls", func() {
			out, err := run("assets", "controls")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("journal_maximize_screenshots"))
		})

		It("should print the stylesheet", func() {
			out, err := run("assets", "style")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring(".full-size-screenshot"))
		})

		It("should reject unknown assets", func() {
			_, err := run("assets", "fonts")
			Expect(err).To(HaveOccurred())
		})
	})
})
