package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"
)

// TitleFetcher returns the <title> text of a page.
type TitleFetcher interface {
	Title(ctx context.Context, url string) (string, error)
}

// CollyTitleFetcher scrapes titles with a colly collector.
type CollyTitleFetcher struct {
	Options *Options
}

// NewCollyTitleFetcher creates a title fetcher; nil options use DefaultOptions.
func NewCollyTitleFetcher(opts *Options) *CollyTitleFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &CollyTitleFetcher{Options: opts}
}

// Title implements TitleFetcher. A page without a title returns "" and no error.
func (f *CollyTitleFetcher) Title(ctx context.Context, url string) (string, error) {
	ua := f.Options.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	c := colly.NewCollector(
		colly.UserAgent(ua),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	if f.Options.Timeout > 0 {
		c.SetRequestTimeout(f.Options.Timeout)
	}

	var title string
	var visitErr error
	c.OnHTML("head title, title", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		visitErr = &Error{URL: url, Message: fmt.Sprintf("HTTP status %d", r.StatusCode), Cause: err}
	})

	if err := c.Visit(url); err != nil {
		return "", &Error{URL: url, Message: "title request failed", Cause: err}
	}
	c.Wait()
	if visitErr != nil {
		return "", visitErr
	}
	return title, nil
}
