package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_TagTokens(t *testing.T) {
	ClearCache()

	prompt, err := Get(NERFile, TagTokensKey)
	require.NoError(t, err)
	assert.Contains(t, prompt, "named-entity tagger")
	assert.Contains(t, prompt, "{{.Count}}")
	assert.Contains(t, prompt, "{{.Tokens}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", TagTokensKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(NERFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() { MustGet("nonexistent.json", TagTokensKey) })
	assert.NotPanics(t, func() { assert.NotEmpty(t, MustGet(NERFile, TagTokensKey)) })
}

func TestGet_Cached(t *testing.T) {
	ClearCache()

	first, err := Get(NERFile, TagTokensKey)
	require.NoError(t, err)
	cacheMu.RLock()
	_, cached := cache[NERFile]
	cacheMu.RUnlock()
	assert.True(t, cached)

	second, err := Get(NERFile, TagTokensKey)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFormat(t *testing.T) {
	out := Format("{{.Count}} tokens: {{.Tokens}} {{.Missing}}", map[string]string{
		"Count":  "2",
		"Tokens": `["Jane","Doe"]`,
	})
	assert.Equal(t, `2 tokens: ["Jane","Doe"] {{.Missing}}`, out)
}
