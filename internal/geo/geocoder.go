// Package geo resolves place names into address components and formats them as a location string.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// ErrNotFound is returned when a lookup yields no result.
var ErrNotFound = errors.New("geo: place not found")

// Address component types used to build a location.
const (
	TypeAdminAreaLevel1 = "administrative_area_level_1"
	TypeLocality        = "locality"
	TypeCountry         = "country"
)

// AddressComponent is one component of a resolved address.
type AddressComponent struct {
	LongName  string
	ShortName string
	Types     []string
}

// Geocoder resolves a place name into address components.
type Geocoder interface {
	Lookup(ctx context.Context, place string) ([]AddressComponent, error)
}

// GoogleGeocoder implements Geocoder with the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder creates a geocoder. Extra options (e.g. maps.WithBaseURL) are applied after the key.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key is required")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// Lookup returns the address components of the best match for place.
func (g *GoogleGeocoder) Lookup(ctx context.Context, place string) ([]AddressComponent, error) {
	if strings.TrimSpace(place) == "" {
		return nil, ErrNotFound
	}
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: place})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	components := make([]AddressComponent, 0, len(results[0].AddressComponents))
	for _, c := range results[0].AddressComponents {
		components = append(components, AddressComponent{
			LongName:  c.LongName,
			ShortName: c.ShortName,
			Types:     c.Types,
		})
	}
	return components, nil
}

// FormatLocation joins the long names of the first-level administrative area, the locality and
// the country, in that order, skipping any that are missing. It returns "" when none are present.
func FormatLocation(components []AddressComponent) string {
	var parts []string
	for _, want := range []string{TypeAdminAreaLevel1, TypeLocality, TypeCountry} {
		if name := firstOfType(components, want); name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func firstOfType(components []AddressComponent, typ string) string {
	for _, c := range components {
		for _, t := range c.Types {
			if t == typ {
				return c.LongName
			}
		}
	}
	return ""
}
