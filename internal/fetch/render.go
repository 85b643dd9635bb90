package fetch

import (
	"context"
	"strings"

	"golang.org/x/sync/semaphore"
)

// MinContentLength is the minimum visible text length for a plain HTTP fetch to count as rendered.
// Shorter pages are assumed to build their content with JavaScript.
const MinContentLength = 500

// Renderer returns the HTML of a page after client-side scripts have run, with scripts stripped.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// HTTPRenderer renders by plain HTTP fetch; no JavaScript is executed.
type HTTPRenderer struct {
	Options *Options
}

// NewHTTPRenderer creates an HTTP renderer; nil options use DefaultOptions.
func NewHTTPRenderer(opts *Options) *HTTPRenderer {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTTPRenderer{Options: opts}
}

// Render implements Renderer.
func (r *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	result, err := URL(ctx, url, r.Options)
	if err != nil {
		return "", err
	}
	return cleanHTML(url, result.HTML)
}

func cleanHTML(url, html string) (string, error) {
	doc, err := StripScripts(html)
	if err != nil {
		return "", &Error{URL: url, Message: "failed to parse page", Cause: err}
	}
	out, err := doc.Html()
	if err != nil {
		return "", &Error{URL: url, Message: "failed to serialize page", Cause: err}
	}
	return out, nil
}

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely rendered client-side.
func ShouldUseBrowser(visibleText string) bool {
	return len(strings.TrimSpace(visibleText)) < MinContentLength
}

// FallbackRenderer tries a cheap renderer first and falls back to a browser
// when the result fails or looks like an empty client-side shell.
type FallbackRenderer struct {
	Primary  Renderer
	Fallback Renderer
}

// Render implements Renderer.
func (r *FallbackRenderer) Render(ctx context.Context, url string) (string, error) {
	html, err := r.Primary.Render(ctx, url)
	if err == nil {
		doc, perr := StripScripts(html)
		if perr == nil && !ShouldUseBrowser(VisibleText(doc)) {
			return html, nil
		}
	}
	fallback, ferr := r.Fallback.Render(ctx, url)
	if ferr != nil {
		if err == nil {
			return html, nil
		}
		return "", ferr
	}
	return fallback, nil
}

// LimitedRenderer bounds the number of concurrent renders.
type LimitedRenderer struct {
	next Renderer
	sem  *semaphore.Weighted
}

// NewLimitedRenderer wraps next so that at most n renders run at once. n < 1 is treated as 1.
func NewLimitedRenderer(next Renderer, n int) *LimitedRenderer {
	if n < 1 {
		n = 1
	}
	return &LimitedRenderer{next: next, sem: semaphore.NewWeighted(int64(n))}
}

// Render implements Renderer.
func (r *LimitedRenderer) Render(ctx context.Context, url string) (string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)
	return r.next.Render(ctx, url)
}
