package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/faculty-enricher/internal/types"
)

func validRecord() types.FacultyRecord {
	r := types.NewFacultyRecord("https://cs.example.edu/people/doe", "https://cs.example.edu/", "https://example.edu/")
	r.FacultyName = types.StringPtr("Jane Doe")
	r.FacultyPhone = types.StringPtr("(217) 300-6150")
	r.FacultyEmail = types.StringPtr("jdoe@example.edu")
	return r
}

func TestValidateRecords_Valid(t *testing.T) {
	sparse := types.NewFacultyRecord("https://cs.example.edu/people/roe", "https://cs.example.edu/", "https://example.edu/")
	assert.NoError(t, ValidateRecords([]types.FacultyRecord{validRecord(), sparse}))
	assert.NoError(t, ValidateRecords(nil))
}

func TestValidateRecords_MissingHomepage(t *testing.T) {
	data, err := json.Marshal([]types.FacultyRecord{validRecord()})
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(data, &docs))
	delete(docs[0], "faculty_homepage_url")
	data, err = json.Marshal(docs)
	require.NoError(t, err)

	err = ValidateRecordsJSON(data)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "faculty_homepage_url")
}

func TestValidateRecords_BadPhoneFormat(t *testing.T) {
	r := validRecord()
	r.FacultyPhone = types.StringPtr("217-300-6150")

	err := ValidateRecords([]types.FacultyRecord{r})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "0.faculty_phone", validationErr.Errors[0].Field)
}

func TestValidateRecords_NotAnArray(t *testing.T) {
	err := ValidateRecordsJSON([]byte(`{"faculty_homepage_url":"https://x/"}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateRecordsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	data, err := json.Marshal([]types.FacultyRecord{validRecord()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	assert.NoError(t, ValidateRecordsFile(path))
	assert.Error(t, ValidateRecordsFile(filepath.Join(dir, "missing.json")))
}
