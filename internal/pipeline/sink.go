package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/faculty-enricher/internal/types"
)

// Sink persists the records of one run. AddRecords is called once per run with every record.
type Sink interface {
	AddRecords(ctx context.Context, records []types.FacultyRecord) error
}

// MultiSink writes to every sink in order and joins their errors.
type MultiSink []Sink

// AddRecords implements Sink. Later sinks still run when an earlier one fails.
func (m MultiSink) AddRecords(ctx context.Context, records []types.FacultyRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.AddRecords(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// JSONSink writes the records as an indented JSON array.
type JSONSink struct {
	W io.Writer
}

// AddRecords implements Sink.
func (s JSONSink) AddRecords(_ context.Context, records []types.FacultyRecord) error {
	if records == nil {
		records = []types.FacultyRecord{}
	}
	enc := json.NewEncoder(s.W)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
