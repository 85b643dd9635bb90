// Package schemas provides JSON Schema validation for exported faculty records.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/faculty-enricher/internal/types"
	rootschemas "github.com/jonathan/faculty-enricher/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	recordsSchemaOnce sync.Once
	recordsSchema     *gojsonschema.Schema
	recordsSchemaErr  error
)

func facultyRecordsSchema() (*gojsonschema.Schema, error) {
	recordsSchemaOnce.Do(func() {
		recordsSchema, recordsSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(rootschemas.FacultyRecords))
		if recordsSchemaErr != nil {
			recordsSchemaErr = &SchemaLoadError{Path: rootschemas.FacultyRecordsFile, Message: "invalid embedded schema", Cause: recordsSchemaErr}
		}
	})
	return recordsSchema, recordsSchemaErr
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// ValidateRecordsJSON validates a JSON array of faculty records against the embedded schema.
func ValidateRecordsJSON(data []byte) error {
	schema, err := facultyRecordsSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to load records document: %w", err)
	}
	return toValidationError(result)
}

// ValidateRecords validates in-memory records as they would be exported.
func ValidateRecords(records []types.FacultyRecord) error {
	if records == nil {
		records = []types.FacultyRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return ValidateRecordsJSON(data)
}

// ValidateRecordsFile validates a records JSON file against the embedded schema.
func ValidateRecordsFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", absPath, err)
	}
	return ValidateRecordsJSON(data)
}
