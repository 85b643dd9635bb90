// Package db persists faculty records and rendered pages in PostgreSQL or SQLite.
package db

import (
	"embed"
	"fmt"

	"github.com/jonathan/faculty-enricher/internal/types"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultListLimit caps ListRecords when no limit is given.
const DefaultListLimit = 500

// recordColumns is the column order used by every insert and select.
const recordColumns = `id, faculty_name, faculty_department_name, faculty_university_name,
	faculty_phone, faculty_email, faculty_expertise, faculty_homepage_url,
	faculty_department_url, faculty_university_url, faculty_biodata, faculty_location`

// RecordFilters holds optional filters for listing records.
type RecordFilters struct {
	DepartmentURL string
	Limit         int
}

func (f RecordFilters) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

func loadMigration(name string) (string, error) {
	b, err := migrations.ReadFile("migrations/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	return string(b), nil
}

// recordArgs returns the values for recordColumns. The ID is passed through as given.
func recordArgs(r types.FacultyRecord, id any) []any {
	location := r.FacultyLocation
	if location == "" {
		location = types.UnknownLocation
	}
	return []any{
		id, r.FacultyName, r.FacultyDepartmentName, r.FacultyUniversityName,
		r.FacultyPhone, r.FacultyEmail, r.FacultyExpertise, r.FacultyHomepageURL,
		r.FacultyDepartmentURL, r.FacultyUniversityURL, r.FacultyBiodata, location,
	}
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner, id any) (types.FacultyRecord, error) {
	var r types.FacultyRecord
	err := s.Scan(id, &r.FacultyName, &r.FacultyDepartmentName, &r.FacultyUniversityName,
		&r.FacultyPhone, &r.FacultyEmail, &r.FacultyExpertise, &r.FacultyHomepageURL,
		&r.FacultyDepartmentURL, &r.FacultyUniversityURL, &r.FacultyBiodata, &r.FacultyLocation)
	return r, err
}
