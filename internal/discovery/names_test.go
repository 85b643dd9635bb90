package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/faculty-enricher/internal/ner"
)

func TestNameMatcher_Buffer(t *testing.T) {
	m := NewNameMatcher(ner.NewPersonGazetteer())
	assert.Equal(t, "John A. Smith ~ About Us ~ ", m.Buffer([]string{" John A. Smith ", "", "About Us"}))
}

func TestNameMatcher_PersonVersusBoilerplate(t *testing.T) {
	m := NewNameMatcher(ner.NewPersonGazetteer("John A. Smith", "Jane Doe"))

	names, err := m.Match(context.Background(), []string{"John A. Smith", "About Us", "Jane Doe", "Admissions"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"johnasmith": {}, "janedoe": {}}, names)
}

func TestNameMatcher_DegreeSuffix(t *testing.T) {
	m := NewNameMatcher(ner.NewPersonGazetteer("Jane Doe", "Bob Roe"))

	names, err := m.Match(context.Background(), []string{"Jane Doe, Ph.D.", "Bob Roe"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"janedoe": {}, "bobroe": {}}, names)
}

func TestNameMatcher_DuplicatesCollapse(t *testing.T) {
	m := NewNameMatcher(ner.NewPersonGazetteer("Jane Doe"))

	names, err := m.Match(context.Background(), []string{"Jane Doe", "JANE DOE", "jane doe"})
	require.NoError(t, err)
	assert.Len(t, names, 1)
	assert.Contains(t, names, "janedoe")
}

func TestNameMatcher_NoAnchors(t *testing.T) {
	m := NewNameMatcher(ner.NewPersonGazetteer("Jane Doe"))
	names, err := m.Match(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFoldNames_OnlyDelimiterClosesName(t *testing.T) {
	tags := []ner.TaggedToken{
		{Token: "JANE", Label: ner.LabelPerson},
		{Token: "Lab", Label: ner.LabelOther},
		{Token: "doe", Label: ner.LabelPerson},
		{Token: "~", Label: ner.LabelOther},
		{Token: "About", Label: ner.LabelOther},
		{Token: "~", Label: ner.LabelOther},
		{Token: "Dangling", Label: ner.LabelPerson},
	}
	assert.Equal(t, []string{"janedoe"}, foldNames(tags, "~"))
}

type failingTagger struct{}

func (failingTagger) Tag(context.Context, []string) ([]ner.TaggedToken, error) {
	return nil, errors.New("tagger offline")
}

func TestNameMatcher_TaggerError(t *testing.T) {
	m := NewNameMatcher(failingTagger{})
	_, err := m.Match(context.Background(), []string{"Jane Doe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tagger offline")
}
