// Package schemas holds the JSON Schemas for exported artifacts.
package schemas

import _ "embed"

// FacultyRecordsFile is the file name of the faculty records schema.
const FacultyRecordsFile = "faculty_records.schema.json"

// FacultyRecords is the schema for a JSON array of faculty records.
//
//go:embed faculty_records.schema.json
var FacultyRecords string
