package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"John", "A", ".", "Smith", "~"}, Tokenize("John A. Smith ~"))
	assert.Equal(t, []string{"O'Brien", "~", "Mary-Kate", "Lee"}, Tokenize("O'Brien ~ Mary-Kate Lee"))
	assert.Empty(t, Tokenize("   "))
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("John A. Smith ~ Dr. Jane Doe ~ Contact us. About Us ~")
	assert.Equal(t, []string{"John A. Smith ~ Dr. Jane Doe ~ Contact us.", "About Us ~"}, got)

	assert.Equal(t, []string{"Hello!", "Bye?"}, SplitSentences("Hello! Bye?"))
	assert.Empty(t, SplitSentences(""))
	assert.Equal(t, []string{"challen@illinois.edu today"}, SplitSentences("challen@illinois.edu today"))
}

func TestSplitSentences_DegreeSuffixKeepsDelimiter(t *testing.T) {
	assert.Equal(t, []string{"Jane Doe, Ph.D. ~ Bob Roe ~"}, SplitSentences("Jane Doe, Ph.D. ~ Bob Roe ~"))
	assert.Len(t, SplitSentences("Prof. Jane Doe, M.S. ~ Dept. of Physics ~"), 1)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Smith", TitleCase("SMITH"))
	assert.Equal(t, "Smith", TitleCase("smith"))
	assert.Equal(t, "", TitleCase(""))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "JohnASmith", SanitizeName("John A. Smith"))
	assert.Equal(t, "", SanitizeName(" ~ .- "))
	assert.Equal(t, "johnasmith", NameKey("John A. Smith"))
	assert.Equal(t, NameKey("JOHN a smith"), NameKey("John A. Smith"))
}

func TestContentTerms(t *testing.T) {
	terms := ContentTerms("The systems research group studies operating systems in 2010.")
	assert.Equal(t, []string{"systems", "research", "group", "studies", "operating", "systems"}, terms)
	assert.Empty(t, ContentTerms(""))
}

func TestContentTerms_KeepsShortAcronyms(t *testing.T) {
	assert.Equal(t, []string{"research", "ai", "ml", "nlp", "hci"}, ContentTerms("Research in AI, ML and NLP for HCI"))
	// lower-case two-letter words and stop-word acronyms are still dropped
	assert.Equal(t, []string{"teaching"}, ContentTerms("Teaching at US go IT"))
}

func TestNormalizeBiodata(t *testing.T) {
	assert.Equal(t, "teaching associate professor cs 125", NormalizeBiodata("Teaching Associate Professor, the CS 125!"))
	assert.Equal(t, "", NormalizeBiodata(""))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("The"))
	assert.False(t, IsStopword("robotics"))
}
