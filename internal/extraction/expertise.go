package extraction

import (
	"context"
	"strings"
	"unicode"

	"github.com/jonathan/faculty-enricher/internal/ner"
	"github.com/jonathan/faculty-enricher/internal/textproc"
	"github.com/jonathan/faculty-enricher/internal/topicmodel"
)

// NumTopics is the number of topics fitted over a single biography.
const NumTopics = 1

// ExpertiseTerms is the number of top topic terms kept as expertise keywords.
const ExpertiseTerms = 10

// tagSentences tags text one sentence at a time.
func tagSentences(ctx context.Context, tagger ner.Tagger, text string) ([][]ner.TaggedToken, error) {
	var tagged [][]ner.TaggedToken
	for _, sentence := range textproc.SplitSentences(text) {
		tokens := textproc.Tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		tags, err := tagger.Tag(ctx, tokens)
		if err != nil {
			return nil, err
		}
		tagged = append(tagged, tags)
	}
	return tagged, nil
}

// withoutPersons drops every PERSON-tagged token.
func withoutPersons(tagged [][]ner.TaggedToken) []string {
	var kept []string
	for _, tags := range tagged {
		kept = append(kept, ner.Without(tags, ner.LabelPerson)...)
	}
	return kept
}

// entityBoundary ends an entity run at punctuation other than the period of an initial.
func entityBoundary(tok string) bool {
	if tok == "." {
		return false
	}
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// TopicKeywords fits a single-topic model over terms and returns its top n words joined by a space.
func TopicKeywords(terms []string, n int, opts topicmodel.Options) (string, error) {
	if len(terms) == 0 {
		return "", nil
	}
	model, err := topicmodel.Fit([][]string{terms}, NumTopics, opts)
	if err != nil {
		return "", err
	}
	top := model.TopTerms(0, n)
	words := make([]string, len(top))
	for i, t := range top {
		words[i] = t.Word
	}
	return strings.Join(words, " "), nil
}
