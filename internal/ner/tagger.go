// Package ner defines the entity-tagger port and its adapters.
package ner

import (
	"context"
	"strings"

	"golang.org/x/sync/semaphore"
)

// Label is an entity tag assigned to a token.
type Label string

// Labels produced by taggers. Anything that is not an entity is LabelOther.
const (
	LabelPerson       Label = "PERSON"
	LabelOrganization Label = "ORGANIZATION"
	LabelLocation     Label = "LOCATION"
	LabelOther        Label = "O"
)

// TaggedToken pairs a token with its label.
type TaggedToken struct {
	Token string
	Label Label
}

// Tagger labels a token sequence. Implementations must return one TaggedToken per input token,
// in order, and be deterministic for identical input within a run.
type Tagger interface {
	Tag(ctx context.Context, tokens []string) ([]TaggedToken, error)
}

// ParseLabel maps free-form tagger output onto the known labels.
func ParseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERSON", "PER", "B-PER", "I-PER":
		return LabelPerson
	case "ORGANIZATION", "ORG", "B-ORG", "I-ORG":
		return LabelOrganization
	case "LOCATION", "LOC", "GPE", "B-LOC", "I-LOC":
		return LabelLocation
	default:
		return LabelOther
	}
}

// LimitedTagger bounds the number of concurrent calls into a wrapped tagger.
type LimitedTagger struct {
	next Tagger
	sem  *semaphore.Weighted
}

// NewLimitedTagger wraps next so that at most n Tag calls run at once. n < 1 is treated as 1.
func NewLimitedTagger(next Tagger, n int) *LimitedTagger {
	if n < 1 {
		n = 1
	}
	return &LimitedTagger{next: next, sem: semaphore.NewWeighted(int64(n))}
}

// Tag acquires a slot and delegates.
func (t *LimitedTagger) Tag(ctx context.Context, tokens []string) ([]TaggedToken, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer t.sem.Release(1)
	return t.next.Tag(ctx, tokens)
}
