// Package geocoding resolves street addresses to coordinates through an
// external geocoding search endpoint. Used by the periodic refresh job
// to keep location coordinates current.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"
)

const serviceName = "geocoding"

// HTTPGeocoder implements ports.Geocoder against a forward-geocoding
// search endpoint (GET with a text query, best match first).
type HTTPGeocoder struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPGeocoder creates a geocoder for the given search endpoint. The
// API key may be empty when the endpoint is unauthenticated.
func NewHTTPGeocoder(endpoint string, apiKey string) (*HTTPGeocoder, error) {
	if endpoint == "" {
		return nil, errs.NewValueIsRequiredError("endpoint")
	}

	return &HTTPGeocoder{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// geocodeResponse is the GeoJSON-shaped search result. Coordinates come
// back as [longitude, latitude].
type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves one address to a coordinate pair. An address with no
// match is an object-not-found error so callers can skip it without
// treating the service as down.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", g.apiKey)
	}

	q := req.URL.Query()
	q.Set("text", address)
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return kernel.GeoPoint{}, ctx.Err()
		}
		return kernel.GeoPoint{}, errs.NewExternalServiceErrorWithCause(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return kernel.GeoPoint{}, errs.NewExternalServiceError(serviceName,
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceErrorWithCause(serviceName,
			fmt.Errorf("decode geocode response: %w", err))
	}

	if len(decoded.Features) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("geocode result", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return kernel.GeoPoint{}, errs.NewExternalServiceErrorWithCause(serviceName,
			fmt.Errorf("invalid coordinate format for %q", address))
	}

	return kernel.NewGeoPoint(coords[1], coords[0])
}
