package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/jonathan/faculty-enricher/internal/fetch"
	"github.com/jonathan/faculty-enricher/internal/logger"
)

// Resolver turns a relative href into a reachable absolute URL, trying a primary and then a secondary base.
// It is safe for concurrent use. A URL found reachable is never checked again; an
// unreachable one is re-checked on the next attempt.
type Resolver struct {
	checker fetch.StatusChecker
	log     logger.Logger

	mu        sync.Mutex
	reachable map[string]struct{}
}

// NewResolver creates a resolver backed by checker.
func NewResolver(checker fetch.StatusChecker, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{checker: checker, log: log, reachable: make(map[string]struct{})}
}

// BuildURL resolves href against base and drops any fragment.
func BuildURL(href, base string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: must have scheme and host", base)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	abs := baseURL.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q in %q", abs.Scheme, href)
	}
	abs.Fragment = ""
	return abs.String(), nil
}

// Resolve returns the first of href-against-primary, href-against-secondary that is reachable.
// Unreachable or unbuildable candidates yield ("", false); errors never escape.
func (r *Resolver) Resolve(ctx context.Context, href, primaryBase, secondaryBase string) (string, bool) {
	for _, base := range []string{primaryBase, secondaryBase} {
		if base == "" {
			continue
		}
		candidate, err := BuildURL(href, base)
		if err != nil {
			r.log.Debug("cannot build faculty URL", logger.String("href", href), logger.String("base", base), logger.Error(err))
			continue
		}
		if r.isReachable(ctx, candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *Resolver) isReachable(ctx context.Context, candidate string) bool {
	r.mu.Lock()
	_, seen := r.reachable[candidate]
	r.mu.Unlock()
	if seen {
		return true
	}

	status, err := r.checker.Status(ctx, candidate)
	if err != nil || status <= 0 || status > http.StatusOK {
		r.log.Debug("faculty URL not reachable", logger.String("url", candidate), logger.Int("status", status), logger.Error(err))
		return false
	}

	r.mu.Lock()
	r.reachable[candidate] = struct{}{}
	r.mu.Unlock()
	return true
}
