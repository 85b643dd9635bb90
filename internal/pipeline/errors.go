package pipeline

import (
	"fmt"

	"github.com/jonathan/faculty-enricher/internal/types"
)

// DiscoveryError means the department's faculty URLs could not be discovered. Nothing was persisted.
type DiscoveryError struct {
	DepartmentURL string
	Cause         error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for %s: %v", e.DepartmentURL, e.Cause)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}

// PersistenceError means the sink rejected the run's records. Records holds what was assembled.
type PersistenceError struct {
	Records []types.FacultyRecord
	Cause   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %d records: %v", len(e.Records), e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// PersonError is a failure confined to one faculty member. The orchestrator logs and drops it.
type PersonError struct {
	URL     string
	Message string
	Cause   error
}

func (e *PersonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Message)
}

func (e *PersonError) Unwrap() error {
	return e.Cause
}
