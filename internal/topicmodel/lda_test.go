package topicmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_SingleTopicRanksByFrequency(t *testing.T) {
	doc := []string{"education", "systems", "education", "internet", "education", "systems"}

	model, err := Fit([][]string{doc}, 1, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, model.NumTopics())

	terms := model.TopTerms(0, 10)
	require.Len(t, terms, 3)
	assert.Equal(t, "education", terms[0].Word)
	assert.Equal(t, "systems", terms[1].Word)
	assert.Equal(t, "internet", terms[2].Word)
	assert.Greater(t, terms[0].Weight, terms[1].Weight)
}

func TestFit_TiesKeepFirstSeenOrder(t *testing.T) {
	doc := []string{"vision", "robots", "vision", "robots", "sensing"}

	model, err := Fit([][]string{doc}, 1, DefaultOptions())
	require.NoError(t, err)

	terms := model.TopTerms(0, 3)
	require.Len(t, terms, 3)
	assert.Equal(t, []string{"vision", "robots", "sensing"}, []string{terms[0].Word, terms[1].Word, terms[2].Word})
}

func TestFit_TopTermsCapped(t *testing.T) {
	doc := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8", "i9", "j10", "k11", "l12"}
	model, err := Fit([][]string{doc}, 1, Options{})
	require.NoError(t, err)
	assert.Len(t, model.TopTerms(0, 10), 10)
	assert.Nil(t, model.TopTerms(1, 10))
	assert.Nil(t, model.TopTerms(0, 0))
}

func TestFit_MultipleTopics(t *testing.T) {
	docs := [][]string{
		{"robot", "robot", "sensor", "motion"},
		{"protein", "cell", "protein", "gene"},
	}

	model, err := Fit(docs, 2, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, model.NumTopics())
	assert.Len(t, model.TopTerms(0, 3), 3)
	assert.Len(t, model.TopTerms(1, 3), 3)
	assert.Nil(t, model.TopTerms(2, 3))
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil, 1, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = Fit([][]string{{}}, 1, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = Fit([][]string{{"x"}}, 0, DefaultOptions())
	assert.Error(t, err)
}
