package fetch

import (
	"context"
	"io"
)

// StatusChecker reports the HTTP status code a URL answers with.
type StatusChecker interface {
	Status(ctx context.Context, url string) (int, error)
}

// HTTPStatusChecker issues a GET and reports the final status after redirects.
type HTTPStatusChecker struct {
	Options *Options
}

// NewHTTPStatusChecker creates a checker; nil options use DefaultOptions.
func NewHTTPStatusChecker(opts *Options) *HTTPStatusChecker {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTTPStatusChecker{Options: opts}
}

// Status implements StatusChecker. The body is drained and discarded.
func (c *HTTPStatusChecker) Status(ctx context.Context, urlStr string) (int, error) {
	req, err := newRequest(ctx, urlStr, c.Options)
	if err != nil {
		return 0, err
	}
	resp, err := c.Options.httpClient().Do(req)
	if err != nil {
		return 0, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
