package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch successful.
// Shorter pages are most likely client-rendered.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is too short to be the real page.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must be installed.
type ChromeRenderer struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to fill the page.
	Settle  time.Duration
	Logger  *zap.Logger
}

// NewChromeRenderer creates a renderer with default timings.
func NewChromeRenderer(log *zap.Logger) *ChromeRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChromeRenderer{Timeout: DefaultTimeout, Settle: 3 * time.Second, Logger: log}
}

// Render navigates to url and returns the rendered document HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	r.Logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		// Cookie banners can cover the description; ignore if absent.
		chromedp.ActionFunc(func(ctx context.Context) error {
			clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(clickCtx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	r.Logger.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}
