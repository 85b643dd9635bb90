package ner

import "strings"

// Span is a contiguous run of tokens sharing one entity label.
type Span struct {
	Text  string
	Label Label
}

// Spans folds tagged tokens into entity spans. A run ends when the label changes or when
// isBoundary reports true for a token; boundary tokens never belong to a span. LabelOther
// tokens produce no span.
func Spans(tags []TaggedToken, isBoundary func(string) bool) []Span {
	var spans []Span
	var words []string
	current := LabelOther

	flush := func() {
		if current != LabelOther && len(words) > 0 {
			spans = append(spans, Span{Text: strings.Join(words, " "), Label: current})
		}
		words = nil
		current = LabelOther
	}

	for _, tt := range tags {
		if isBoundary != nil && isBoundary(tt.Token) {
			flush()
			continue
		}
		if tt.Label != current {
			flush()
			current = tt.Label
		}
		if current != LabelOther {
			words = append(words, tt.Token)
		}
	}
	flush()
	return spans
}

// Without returns the tokens whose label is not label, preserving order.
func Without(tags []TaggedToken, label Label) []string {
	kept := make([]string, 0, len(tags))
	for _, tt := range tags {
		if tt.Label != label {
			kept = append(kept, tt.Token)
		}
	}
	return kept
}
