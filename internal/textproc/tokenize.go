// Package textproc provides the tokenization and normalization used by name matching and field extraction.
package textproc

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"
	"github.com/neurosnap/sentences/english"
)

// tokenPattern yields word tokens (allowing inner apostrophes and hyphens) and single punctuation marks.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// Tokenize splits text into word and punctuation tokens.
// "John A. Smith ~" becomes ["John", "A", ".", "Smith", "~"].
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// abbreviations extend the Punkt English model with academic titles and degrees.
var abbreviations = []string{
	"ph.d", "m.s", "b.s", "m.a", "b.a", "m.d", "j.d", "m.sc", "b.sc", "m.eng",
	"prof", "dr", "assoc", "asst", "dept", "univ", "ave", "st", "jr", "sr",
}

var (
	splitterOnce sync.Once
	splitter     *sentences.DefaultSentenceTokenizer
	splitterErr  error
)

func sentenceTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	splitterOnce.Do(func() {
		b, err := data.Asset("data/english.json")
		if err != nil {
			splitterErr = err
			return
		}
		training, err := sentences.LoadTraining(b)
		if err != nil {
			splitterErr = err
			return
		}
		for _, abbr := range abbreviations {
			training.AbbrevTypes.Add(abbr)
		}
		// middle initials
		for r := 'a'; r <= 'z'; r++ {
			training.AbbrevTypes.Add(string(r))
		}
		splitter, splitterErr = english.NewSentenceTokenizer(training)
	})
	return splitter, splitterErr
}

// SplitSentences splits text with the Punkt English model. A period after an initial,
// a title or a degree does not end a sentence. If the model cannot be loaded the whole
// text is one sentence.
func SplitSentences(text string) []string {
	tok, err := sentenceTokenizer()
	if err != nil {
		if s := strings.TrimSpace(text); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, s := range tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TitleCase upper-cases the first letter of a token and lower-cases the rest.
func TitleCase(token string) string {
	runes := []rune(strings.ToLower(token))
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}
