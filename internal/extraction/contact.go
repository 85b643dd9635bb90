package extraction

import (
	"fmt"
	"regexp"
)

// phonePattern matches a North American number: optional +1, area code and exchange starting 2-9,
// with optional parentheses and space, dot or hyphen separators.
var phonePattern = regexp.MustCompile(`(?:^|[^\d+])((?:\+?1[\s.\-]?)?\(?([2-9]\d{2})\)?[\s.\-]?([2-9]\d{2})[\s.\-]?(\d{4}))`)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)

// ExtractPhone returns the first phone number in text formatted as "(NXX) NXX-XXXX", or "".
func ExtractPhone(text string) string {
	for _, m := range phonePattern.FindAllStringSubmatchIndex(text, -1) {
		end := m[3]
		if end < len(text) && isDigit(text[end]) {
			continue
		}
		area := text[m[4]:m[5]]
		exchange := text[m[6]:m[7]]
		line := text[m[8]:m[9]]
		return fmt.Sprintf("(%s) %s-%s", area, exchange, line)
	}
	return ""
}

// ExtractEmail returns the first email address in text, or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
