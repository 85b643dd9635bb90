package biography

import "fmt"

// Error represents a failure to load a faculty page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("biography error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("biography error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
