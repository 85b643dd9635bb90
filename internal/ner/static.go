package ner

import (
	"context"
	"strings"
)

// StaticTagger labels tokens from a fixed, case-insensitive gazetteer. Unknown tokens get LabelOther.
// It is deterministic and needs no external process, which makes it the tagger of choice for tests
// and for offline runs seeded with a known staff list.
type StaticTagger struct {
	labels map[string]Label
}

// NewStaticTagger builds a gazetteer tagger from token → label entries.
func NewStaticTagger(entries map[string]Label) *StaticTagger {
	labels := make(map[string]Label, len(entries))
	for tok, label := range entries {
		labels[strings.ToLower(tok)] = label
	}
	return &StaticTagger{labels: labels}
}

// NewPersonGazetteer tags every word of every given full name as PERSON.
func NewPersonGazetteer(names ...string) *StaticTagger {
	entries := make(map[string]Label)
	for _, name := range names {
		for _, word := range strings.Fields(name) {
			entries[strings.Trim(word, ".,")] = LabelPerson
		}
	}
	return NewStaticTagger(entries)
}

// Tag implements Tagger.
func (s *StaticTagger) Tag(_ context.Context, tokens []string) ([]TaggedToken, error) {
	out := make([]TaggedToken, len(tokens))
	for i, tok := range tokens {
		label, ok := s.labels[strings.ToLower(tok)]
		if !ok {
			label = LabelOther
		}
		out[i] = TaggedToken{Token: tok, Label: label}
	}
	return out, nil
}
