package kernel

import (
	"errors"
	"fmt"
	"math"

	"fooddrop/internal/pkg/errs"
	"fooddrop/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint. GeoPoints must be created via NewGeoPoint
// so that a missing coordinate is always an error, never a silent (0, 0)
// somewhere in the Gulf of Guinea.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable latitude/longitude pair in degrees. The zero value
// is invalid and fails validation; use NewGeoPoint.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(43.4723, -80.5449)
//	if err != nil {
//	    // handle validation error
//	}
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the given coordinates in degrees.
// Latitude must lie in [LatitudeMin, LatitudeMax] and longitude in
// [LongitudeMin, LongitudeMax]; NaN is rejected.
func NewGeoPoint(latitude float64, longitude float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the GeoPoint was created through NewGeoPoint.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String implements fmt.Stringer as "GeoPoint(lat,lon)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.latitude, p.longitude)
}

// IsEqual compares two points for coordinate equality. Both points must be
// properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// BearingFrom returns the angle of this point as seen from origin, computed
// as atan2 of the latitude/longitude deltas and normalized to [0, 2*Pi).
// The angle is a sort key for sweep partitioning, not a navigational bearing.
func (p GeoPoint) BearingFrom(origin GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), origin.Validate()); err != nil {
		return 0, err
	}

	angle := math.Atan2(p.latitude-origin.latitude, p.longitude-origin.longitude)
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle, nil
}

// DistanceSquaredFrom returns the squared Euclidean distance in degree space
// between this point and origin. Cheap tie-break key for points sharing a
// bearing; not a physical distance.
func (p GeoPoint) DistanceSquaredFrom(origin GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), origin.Validate()); err != nil {
		return 0, err
	}

	dLat := p.latitude - origin.latitude
	dLon := p.longitude - origin.longitude
	return dLat*dLat + dLon*dLon, nil
}

// setLatitude sets the latitude with validation.
// Pointer receiver is intentional: private setters enable self-encapsulated
// validation during construction while the public API stays value-based.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) {
		return errs.NewValueIsRequiredError("latitude")
	}
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) {
		return errs.NewValueIsRequiredError("longitude")
	}
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.longitude = longitude
	return nil
}
