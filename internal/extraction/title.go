package extraction

import "strings"

// DefaultTitleSegment selects the second "|"-separated segment of a page title.
// University and department sites usually title pages "Page | Organization".
const DefaultTitleSegment = 1

// ParseTitle picks the name out of a page title. A title without "|" is used whole.
// Otherwise the segment at index is used, falling back to the first non-blank segment.
func ParseTitle(title string, index int) string {
	title = strings.TrimSpace(title)
	if !strings.Contains(title, "|") {
		return title
	}
	segments := strings.Split(title, "|")
	if index >= 0 && index < len(segments) {
		if s := strings.TrimSpace(segments[index]); s != "" {
			return s
		}
	}
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
