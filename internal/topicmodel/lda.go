// Package topicmodel fits Latent Dirichlet Allocation over tokenized documents
// and ranks the words of each topic.
package topicmodel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
)

// ErrEmptyCorpus is returned when there is nothing to model.
var ErrEmptyCorpus = errors.New("topicmodel: empty corpus")

// Topic weights that agree to within 1/rankPrecision of the top weight rank as equal.
const rankPrecision = 1e3

// Options tunes the variational LDA fit.
type Options struct {
	Alpha      float64 // document-topic prior
	Eta        float64 // topic-word prior
	Iterations int
}

// DefaultOptions returns the settings used for expertise keywords.
func DefaultOptions() Options {
	return Options{Alpha: 0.1, Eta: 0.01, Iterations: 1000}
}

// Term is a vocabulary entry with its weight inside a topic.
type Term struct {
	Word   string
	Weight float64
}

// Model is a fitted LDA model.
type Model struct {
	vocab     []string
	numTopics int
	// weights[k][i] is the weight of vocab[i] in topic k.
	weights [][]float64
}

// NumTopics returns the number of topics the model was fitted with.
func (m *Model) NumTopics() int {
	return m.numTopics
}

// fieldsTokeniser hands pre-tokenized terms to the vectoriser unchanged.
type fieldsTokeniser struct{}

func (fieldsTokeniser) ForEachIn(input string, f func(token string)) {
	for _, tok := range strings.Fields(input) {
		f(tok)
	}
}

func (fieldsTokeniser) Tokenise(input string) []string {
	return strings.Fields(input)
}

// Fit trains an LDA model with numTopics topics over docs, each a list of terms.
func Fit(docs [][]string, numTopics int, opts Options) (*Model, error) {
	if numTopics < 1 {
		return nil, fmt.Errorf("topicmodel: numTopics must be >= 1, got %d", numTopics)
	}
	defaults := DefaultOptions()
	if opts.Alpha <= 0 {
		opts.Alpha = defaults.Alpha
	}
	if opts.Eta <= 0 {
		opts.Eta = defaults.Eta
	}
	if opts.Iterations <= 0 {
		opts.Iterations = defaults.Iterations
	}

	vocab := firstSeen(docs)
	if len(vocab) == 0 {
		return nil, ErrEmptyCorpus
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = strings.Join(doc, " ")
	}

	vectoriser := nlp.NewCountVectoriser()
	vectoriser.Tokeniser = fieldsTokeniser{}
	tdm, err := vectoriser.FitTransform(texts...)
	if err != nil {
		return nil, fmt.Errorf("topicmodel: count terms: %w", err)
	}

	lda := nlp.NewLatentDirichletAllocation(numTopics)
	lda.Iterations = opts.Iterations
	// run every iteration instead of stopping on a perplexity plateau
	lda.PerplexityEvaluationFrequency = opts.Iterations + 1
	lda.Alpha = opts.Alpha
	lda.Eta = opts.Eta
	if _, err := lda.FitTransform(tdm); err != nil {
		return nil, fmt.Errorf("topicmodel: fit: %w", err)
	}

	components := lda.Components()
	weights := make([][]float64, numTopics)
	for k := range weights {
		weights[k] = make([]float64, len(vocab))
		for i, word := range vocab {
			weights[k][i] = components.At(k, vectoriser.Vocabulary[word])
		}
	}
	return &Model{vocab: vocab, numTopics: numTopics, weights: weights}, nil
}

// firstSeen lists the distinct terms of docs in order of first appearance.
func firstSeen(docs [][]string) []string {
	seen := make(map[string]struct{})
	var vocab []string
	for _, doc := range docs {
		for _, term := range doc {
			if term == "" {
				continue
			}
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			vocab = append(vocab, term)
		}
	}
	return vocab
}

// TopTerms returns up to n terms of topic ranked by weight. Terms whose weights agree
// to rankPrecision keep the order in which they first appeared.
func (m *Model) TopTerms(topic, n int) []Term {
	if topic < 0 || topic >= m.numTopics || n <= 0 {
		return nil
	}
	weights := m.weights[topic]
	var top float64
	for _, w := range weights {
		top = math.Max(top, w)
	}
	rank := make([]float64, len(weights))
	for i, w := range weights {
		if top > 0 {
			rank[i] = math.Round(w / top * rankPrecision)
		}
	}

	ids := make([]int, len(m.vocab))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(i, j int) bool { return rank[ids[i]] > rank[ids[j]] })
	if len(ids) > n {
		ids = ids[:n]
	}
	terms := make([]Term, len(ids))
	for i, id := range ids {
		terms[i] = Term{Word: m.vocab[id], Weight: weights[id]}
	}
	return terms
}
