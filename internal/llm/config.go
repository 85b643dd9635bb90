// Package llm wraps the Gemini API behind a small client interface used by the entity tagger.
package llm

import "time"

// DefaultModel is the model used for token labelling; a lite tier is sufficient for classification.
const DefaultModel = "gemini-2.5-flash-lite"

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// Config holds the model configuration.
type Config struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Temperature: 0,
		Timeout:     DefaultTimeout,
	}
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}
