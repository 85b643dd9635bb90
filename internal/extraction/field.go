// Package extraction derives the structured fields of a faculty record from a biography and page titles.
package extraction

import (
	"github.com/jonathan/faculty-enricher/internal/types"
)

// Field is the outcome of extracting one value. Absent fields carry the reason in Err when there was one.
type Field struct {
	Value   string
	Present bool
	Err     error
}

func present(v string) Field {
	if v == "" {
		return Field{}
	}
	return Field{Value: v, Present: true}
}

func failed(err error) Field {
	return Field{Err: err}
}

// String returns the value, or "" when the field is absent.
func (f Field) String() string {
	if !f.Present {
		return ""
	}
	return f.Value
}

// Ptr returns a pointer to the value, or nil when the field is absent.
func (f Field) Ptr() *string {
	if !f.Present {
		return nil
	}
	return types.StringPtr(f.Value)
}

// Sources are the pages a record's fields are drawn from.
type Sources struct {
	FacultyURL    string
	DepartmentURL string
	UniversityURL string
}

// Fields is the full set of extraction outcomes for one faculty member.
type Fields struct {
	Name       Field
	Department Field
	University Field
	Phone      Field
	Email      Field
	Expertise  Field
	Biodata    Field
	Location   Field
}

// LocationOrUnknown returns the resolved location or types.UnknownLocation.
func (f Fields) LocationOrUnknown() string {
	if !f.Location.Present {
		return types.UnknownLocation
	}
	return f.Location.Value
}

// Errors returns the non-nil extraction errors, keyed by field name.
func (f Fields) Errors() map[string]error {
	errs := make(map[string]error)
	for name, field := range map[string]Field{
		"name": f.Name, "department": f.Department, "university": f.University,
		"phone": f.Phone, "email": f.Email, "expertise": f.Expertise,
		"biodata": f.Biodata, "location": f.Location,
	} {
		if field.Err != nil {
			errs[name] = field.Err
		}
	}
	return errs
}

// Assemble builds the record for src from the extracted fields.
func Assemble(src Sources, f Fields) types.FacultyRecord {
	rec := types.NewFacultyRecord(src.FacultyURL, src.DepartmentURL, src.UniversityURL)
	rec.FacultyName = f.Name.Ptr()
	rec.FacultyDepartmentName = f.Department.Ptr()
	rec.FacultyUniversityName = f.University.Ptr()
	rec.FacultyPhone = f.Phone.Ptr()
	rec.FacultyEmail = f.Email.Ptr()
	rec.FacultyExpertise = f.Expertise.Ptr()
	rec.FacultyBiodata = f.Biodata.Ptr()
	rec.FacultyLocation = f.LocationOrUnknown()
	return rec
}
