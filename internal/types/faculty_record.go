// Package types provides type definitions for structured data used throughout the faculty-enricher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"

	"github.com/google/uuid"
)

// UnknownLocation is the sentinel stored when a location cannot be resolved.
const UnknownLocation = "Unknown"

// FacultyRecord is the output unit of a department run.
// Optional fields are pointers so that an absent value serializes as null rather than "".
type FacultyRecord struct {
	ID                    uuid.UUID `json:"id"`
	FacultyName           *string   `json:"faculty_name"`
	FacultyDepartmentName *string   `json:"faculty_department_name"`
	FacultyUniversityName *string   `json:"faculty_university_name"`
	FacultyPhone          *string   `json:"faculty_phone"`
	FacultyEmail          *string   `json:"faculty_email"`
	FacultyExpertise      *string   `json:"faculty_expertise"`
	FacultyHomepageURL    string    `json:"faculty_homepage_url"`
	FacultyDepartmentURL  string    `json:"faculty_department_url"`
	FacultyUniversityURL  string    `json:"faculty_university_url"`
	FacultyBiodata        *string   `json:"faculty_biodata"`
	FacultyLocation       string    `json:"faculty_location"`
}

// NewFacultyRecord creates a record for a homepage with a fresh ID and every optional field unset.
func NewFacultyRecord(homepageURL, departmentURL, universityURL string) FacultyRecord {
	return FacultyRecord{
		ID:                   uuid.New(),
		FacultyHomepageURL:   homepageURL,
		FacultyDepartmentURL: departmentURL,
		FacultyUniversityURL: universityURL,
		FacultyLocation:      UnknownLocation,
	}
}

// UnmarshalJSON decodes a record, mapping a null or missing location to UnknownLocation.
func (r *FacultyRecord) UnmarshalJSON(data []byte) error {
	type plain FacultyRecord
	var aux struct {
		plain
		FacultyLocation *string `json:"faculty_location"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = FacultyRecord(aux.plain)
	r.FacultyLocation = UnknownLocation
	if aux.FacultyLocation != nil && *aux.FacultyLocation != "" {
		r.FacultyLocation = *aux.FacultyLocation
	}
	return nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
