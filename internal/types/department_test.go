package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepartment_Validate(t *testing.T) {
	valid := Department{
		DepartmentURL: "https://www.eecs.psu.edu/",
		ListingURL:    "https://www.eecs.psu.edu/departments/cse-faculty-list.aspx",
		UniversityURL: "https://www.psu.edu/",
	}
	assert.NoError(t, valid.Validate())

	missing := Department{DepartmentURL: "https://www.eecs.psu.edu/"}
	assert.Error(t, missing.Validate())

	bad := Department{DepartmentURL: "not a url", UniversityURL: "https://www.psu.edu/"}
	assert.Error(t, bad.Validate())
}

func TestDepartment_ListingFallsBackToDepartment(t *testing.T) {
	d := Department{DepartmentURL: "https://cs.example.edu/"}
	assert.Equal(t, "https://cs.example.edu/", d.Listing())

	d.ListingURL = "https://cs.example.edu/faculty"
	assert.Equal(t, "https://cs.example.edu/faculty", d.Listing())
}
