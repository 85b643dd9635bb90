package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultSettleDelay is how long the browser waits after the body is ready for scripts to populate it.
const DefaultSettleDelay = 2 * time.Second

// BrowserRenderer renders pages in headless Chrome. Requires Chrome/Chromium on the host.
type BrowserRenderer struct {
	Timeout     time.Duration
	SettleDelay time.Duration
}

// NewBrowserRenderer creates a browser renderer with default delays.
func NewBrowserRenderer(timeout time.Duration) *BrowserRenderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserRenderer{Timeout: timeout, SettleDelay: DefaultSettleDelay}
}

// Render implements Renderer.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
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

	browserCtx, cancel = context.WithTimeout(browserCtx, b.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.SettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: fmt.Errorf("chromedp: %w", err)}
	}

	return cleanHTML(url, html)
}
