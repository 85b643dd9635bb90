package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestFormatLocation(t *testing.T) {
	components := []AddressComponent{
		{LongName: "Urbana", Types: []string{"locality", "political"}},
		{LongName: "Champaign County", Types: []string{"administrative_area_level_2", "political"}},
		{LongName: "Illinois", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "United States", Types: []string{"country", "political"}},
	}
	assert.Equal(t, "Illinois, Urbana, United States", FormatLocation(components))
}

func TestFormatLocation_SkipsMissing(t *testing.T) {
	components := []AddressComponent{{LongName: "Canada", Types: []string{"country"}}}
	assert.Equal(t, "Canada", FormatLocation(components))
	assert.Equal(t, "", FormatLocation(nil))
}

const geocodeResponse = `{
  "status": "OK",
  "results": [{
    "formatted_address": "Urbana, IL, USA",
    "address_components": [
      {"long_name": "Urbana", "short_name": "Urbana", "types": ["locality", "political"]},
      {"long_name": "Illinois", "short_name": "IL", "types": ["administrative_area_level_1", "political"]},
      {"long_name": "United States", "short_name": "US", "types": ["country", "political"]}
    ],
    "geometry": {"location": {"lat": 40.1, "lng": -88.2}, "location_type": "APPROXIMATE"},
    "place_id": "abc",
    "types": ["university"]
  }]
}`

func TestGoogleGeocoder_Lookup(t *testing.T) {
	var gotAddress string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geocodeResponse))
	}))
	defer server.Close()

	g, err := NewGoogleGeocoder("test-key", maps.WithBaseURL(server.URL))
	require.NoError(t, err)

	components, err := g.Lookup(context.Background(), "University of Illinois Urbana-Champaign")
	require.NoError(t, err)
	assert.Equal(t, "University of Illinois Urbana-Champaign", gotAddress)
	require.Len(t, components, 3)
	assert.Equal(t, "Illinois, Urbana, United States", FormatLocation(components))
}

func TestGoogleGeocoder_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	g, err := NewGoogleGeocoder("test-key", maps.WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = g.Lookup(context.Background(), "Nowhere University")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleGeocoder_EmptyPlace(t *testing.T) {
	g, err := NewGoogleGeocoder("test-key")
	require.NoError(t, err)
	_, err = g.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewGoogleGeocoder_RequiresKey(t *testing.T) {
	_, err := NewGoogleGeocoder("")
	assert.Error(t, err)
}
