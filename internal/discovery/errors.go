// Package discovery finds the faculty homepage links on a department's listing page.
package discovery

import "fmt"

// Error represents a failure to scan a listing page or to classify its anchors.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("discovery error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("discovery error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
