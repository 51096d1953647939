package ports

import (
	"context"

	"fooddrop/internal/core/domain/model/kernel"
)

// Geocoder resolves a street address to coordinates. Implemented by the
// HTTP geocoding adapter; consumed by the geocoding refresh job.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
