// Package research looks up a university's homepage when a run is started from a department URL alone.
package research

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/faculty-enricher/internal/logger"
)

// ErrNotFound is returned when no homepage could be determined.
var ErrNotFound = errors.New("university homepage not found")

// Finder resolves university homepages, using Custom Search when configured.
type Finder struct {
	svc *customsearch.Service
	cx  string
	log logger.Logger
}

// NewFinder creates a Finder backed by Custom Search. Extra client options are passed through.
func NewFinder(ctx context.Context, apiKey, cx string, log logger.Logger, opts ...option.ClientOption) (*Finder, error) {
	if log == nil {
		log = logger.NewNop()
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Finder{svc: svc, cx: cx, log: log}, nil
}

// NewOfflineFinder creates a Finder that only uses the domain heuristic.
func NewOfflineFinder(log logger.Logger) *Finder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Finder{log: log}
}

// FindUniversityHomepage returns the homepage of the university that hosts departmentURL.
// Search results must lie on the department's university domain; the domain root is the fallback.
func (f *Finder) FindUniversityHomepage(ctx context.Context, departmentURL string) (string, error) {
	domain := UniversityDomain(departmentURL)
	guess := GuessUniversityURL(departmentURL)

	if f.svc == nil {
		if guess == "" {
			return "", ErrNotFound
		}
		return guess, nil
	}

	query := fmt.Sprintf("%s university official website", extractDomainFromURL(departmentURL))
	if domain != "" {
		query = fmt.Sprintf("site:%s university homepage", domain)
	}
	resp, err := f.svc.Cse.List().Cx(f.cx).Q(query).Num(5).Context(ctx).Do()
	if err != nil {
		f.log.Warn("university search failed", logger.String("query", query), logger.Error(err))
		if guess != "" {
			return guess, nil
		}
		return "", fmt.Errorf("search failed: %w", err)
	}

	for _, item := range resp.Items {
		if domain == "" || IsFromDomain(item.Link, []string{domain}) {
			return item.Link, nil
		}
	}
	if guess != "" {
		return guess, nil
	}
	return "", ErrNotFound
}
