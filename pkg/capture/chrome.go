package capture

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeDriver captures the page shown in a chromedp browser context.
type ChromeDriver struct {
	browserCtx context.Context
	fullPage   bool
}

// NewChromeDriver creates a ChromeDriver bound to a context created by
// chromedp.NewContext. When fullPage is set the capture extends beyond the viewport.
func NewChromeDriver(browserCtx context.Context, fullPage bool) *ChromeDriver {
	return &ChromeDriver{browserCtx: browserCtx, fullPage: fullPage}
}

// Screenshot captures a PNG of the current tab. Cancelling ctx aborts the capture.
func (d *ChromeDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if d.browserCtx == nil || chromedp.FromContext(d.browserCtx) == nil {
		return nil, ErrUnavailable
	}
	if err := d.browserCtx.Err(); err != nil {
		return nil, ErrUnavailable
	}

	runCtx, cancel := context.WithCancel(d.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(d.fullPage).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return buf, nil
}

// NewBrowserContext starts a Chrome instance for standalone captures.
// The returned cancel func shuts the browser down.
func NewBrowserContext(headless bool, width, height int) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.WindowSize(width, height),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	return ctx, func() {
		ctxCancel()
		allocCancel()
	}
}

// Navigate opens url in the browser context and waits for the body to be ready.
func Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}
