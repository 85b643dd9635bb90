package types

import (
	"github.com/go-playground/validator/v10"
)

// Department identifies one run: the department root, its faculty listing page and the university homepage.
type Department struct {
	DepartmentURL string `json:"department_url" validate:"required,url"`
	ListingURL    string `json:"listing_url,omitempty" validate:"omitempty,url"`
	UniversityURL string `json:"university_url" validate:"required,url"`
}

// Validate validates the Department using the validator.
func (d *Department) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// Listing returns the listing page URL, falling back to the department URL.
func (d Department) Listing() string {
	if d.ListingURL == "" {
		return d.DepartmentURL
	}
	return d.ListingURL
}
