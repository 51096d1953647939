package geocoding_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fooddrop/internal/adapters/out/geocoding"
	"fooddrop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPGeocoder_RequiresEndpoint(t *testing.T) {
	_, err := geocoding.NewHTTPGeocoder("", "key")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGeocode_ResolvesAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "22 King St N", r.URL.Query().Get("text"))
		assert.Equal(t, "1", r.URL.Query().Get("size"))
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		// GeoJSON order: [longitude, latitude]
		fmt.Fprint(w, `{"features": [{"geometry": {"coordinates": [-80.5449, 43.4723]}}]}`)
	}))
	defer server.Close()

	geocoder, err := geocoding.NewHTTPGeocoder(server.URL, "test-key")
	require.NoError(t, err)

	point, err := geocoder.Geocode(context.Background(), "22 King St N")

	require.NoError(t, err)
	assert.InDelta(t, 43.4723, point.Latitude(), 1e-9)
	assert.InDelta(t, -80.5449, point.Longitude(), 1e-9)
}

func TestGeocode_RequiresAddress(t *testing.T) {
	geocoder, err := geocoding.NewHTTPGeocoder("http://localhost:1", "")
	require.NoError(t, err)

	_, err = geocoder.Geocode(context.Background(), "")

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGeocode_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features": []}`)
	}))
	defer server.Close()

	geocoder, err := geocoding.NewHTTPGeocoder(server.URL, "")
	require.NoError(t, err)

	_, err = geocoder.Geocode(context.Background(), "1 Nowhere Lane")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGeocode_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	geocoder, err := geocoding.NewHTTPGeocoder(server.URL, "")
	require.NoError(t, err)

	_, err = geocoder.Geocode(context.Background(), "22 King St N")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalService)
	assert.Contains(t, err.Error(), "429")
}

func TestGeocode_MalformedCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features": [{"geometry": {"coordinates": [-80.5449]}}]}`)
	}))
	defer server.Close()

	geocoder, err := geocoding.NewHTTPGeocoder(server.URL, "")
	require.NoError(t, err)

	_, err = geocoder.Geocode(context.Background(), "22 King St N")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalService)
}
