package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/faculty-enricher/internal/ner"
	"github.com/jonathan/faculty-enricher/internal/textproc"
)

// Delimiter separates anchor texts in the tagger's scan buffer.
const Delimiter = " ~ "

// NameMatcher decides which anchor texts are person names.
//
// Anchor texts are too short for a tagger on their own, so they are pooled into one buffer with a
// visible delimiter after each. The delimiter token is the only thing that closes a name: PERSON
// tokens extend the current name, and every other token is ignored until the next delimiter.
type NameMatcher struct {
	tagger    ner.Tagger
	delimiter string
}

// NewNameMatcher creates a matcher using the default delimiter.
func NewNameMatcher(tagger ner.Tagger) *NameMatcher {
	return &NameMatcher{tagger: tagger, delimiter: Delimiter}
}

// Buffer joins the non-blank anchor texts, each followed by the delimiter.
func (m *NameMatcher) Buffer(texts []string) string {
	var sb strings.Builder
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString(m.delimiter)
	}
	return sb.String()
}

// Match returns the set of case-folded sanitized names found among texts.
func (m *NameMatcher) Match(ctx context.Context, texts []string) (map[string]struct{}, error) {
	names := make(map[string]struct{})
	delimToken := strings.TrimSpace(m.delimiter)

	for _, sentence := range textproc.SplitSentences(m.Buffer(texts)) {
		tokens := textproc.Tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		tags, err := m.tagger.Tag(ctx, tokens)
		if err != nil {
			return nil, fmt.Errorf("failed to tag anchor texts: %w", err)
		}
		for _, key := range foldNames(tags, delimToken) {
			names[key] = struct{}{}
		}
	}
	return names, nil
}

// foldNames emits the name key accumulated before each delimiter token.
// A name left open at the end of the sentence is discarded.
func foldNames(tags []ner.TaggedToken, delimiter string) []string {
	var keys []string
	var current []string
	for _, tt := range tags {
		if tt.Token == delimiter {
			if key := textproc.NameKey(strings.Join(current, " ")); key != "" {
				keys = append(keys, key)
			}
			current = nil
			continue
		}
		if tt.Label == ner.LabelPerson {
			current = append(current, textproc.TitleCase(tt.Token))
		}
	}
	return keys
}
