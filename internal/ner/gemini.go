package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/faculty-enricher/internal/llm"
	"github.com/jonathan/faculty-enricher/internal/prompts"
)

// DefaultBatchSize caps the number of tokens sent in one prompt.
const DefaultBatchSize = 400

// LLMTagger asks a language model to label tokens.
type LLMTagger struct {
	client    llm.Client
	batchSize int
}

// NewLLMTagger creates a tagger backed by client.
func NewLLMTagger(client llm.Client, batchSize int) *LLMTagger {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &LLMTagger{client: client, batchSize: batchSize}
}

type tagResponse struct {
	Labels []string `json:"labels"`
}

// Tag implements Tagger, splitting long inputs into batches.
func (t *LLMTagger) Tag(ctx context.Context, tokens []string) ([]TaggedToken, error) {
	out := make([]TaggedToken, 0, len(tokens))
	for start := 0; start < len(tokens); start += t.batchSize {
		end := min(start+t.batchSize, len(tokens))
		batch, err := t.tagBatch(ctx, tokens[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (t *LLMTagger) tagBatch(ctx context.Context, tokens []string) ([]TaggedToken, error) {
	encoded, err := json.Marshal(tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tokens: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet(prompts.NERFile, prompts.TagTokensKey), map[string]string{
		"Count":  strconv.Itoa(len(tokens)),
		"Tokens": string(encoded),
	})
	raw, err := t.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("tagger request failed: %w", err)
	}

	var resp tagResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse tagger response: %w", err)
	}
	if len(resp.Labels) != len(tokens) {
		return nil, fmt.Errorf("tagger returned %d labels for %d tokens", len(resp.Labels), len(tokens))
	}

	out := make([]TaggedToken, len(tokens))
	for i, tok := range tokens {
		out[i] = TaggedToken{Token: tok, Label: ParseLabel(resp.Labels[i])}
	}
	return out, nil
}
