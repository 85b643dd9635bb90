package textproc

import (
	"strings"
	"unicode"
)

// SanitizeName strips every character that is not a letter or a digit.
func SanitizeName(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NameKey is the case-folded comparison key of a sanitized name.
func NameKey(s string) string {
	return strings.ToLower(SanitizeName(s))
}

// ContentTerms returns lower-cased tokens suitable for keyword ranking:
// containing a letter, not a stop word, and at least three runes unless the token
// is an upper-case acronym such as "AI".
func ContentTerms(text string) []string {
	var terms []string
	for _, tok := range Tokenize(text) {
		term := strings.ToLower(tok)
		if !hasLetter(term) || IsStopword(term) {
			continue
		}
		if n := len([]rune(term)); n < 2 || (n < 3 && !isAcronym(tok)) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// NormalizeBiodata lower-cases the text, drops punctuation and stop words, and joins the rest with single spaces.
func NormalizeBiodata(text string) string {
	var kept []string
	for _, tok := range Tokenize(text) {
		term := strings.ToLower(SanitizeName(tok))
		if term == "" || IsStopword(term) {
			continue
		}
		kept = append(kept, term)
	}
	return strings.Join(kept, " ")
}

func isAcronym(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
