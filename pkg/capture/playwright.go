package capture

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver captures a playwright page.
type PlaywrightDriver struct {
	page     playwright.Page
	fullPage bool
}

// NewPlaywrightDriver creates a PlaywrightDriver for page.
func NewPlaywrightDriver(page playwright.Page, fullPage bool) *PlaywrightDriver {
	return &PlaywrightDriver{page: page, fullPage: fullPage}
}

// Screenshot captures a PNG of the page. Playwright has no context support,
// so the ctx deadline is converted into the screenshot timeout.
func (d *PlaywrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if d.page == nil || d.page.IsClosed() {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(d.fullPage),
		Type:     playwright.ScreenshotTypePng,
	}
	if deadline, ok := ctx.Deadline(); ok {
		ms := float64(time.Until(deadline).Milliseconds())
		if ms <= 0 {
			return nil, context.DeadlineExceeded
		}
		opts.Timeout = playwright.Float(ms)
	}
	return d.page.Screenshot(opts)
}
