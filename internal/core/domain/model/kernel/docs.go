// Package kernel provides the shared domain primitives of the route
// generation system.
//
// The package includes:
//   - UUID: the identity value object used by every aggregate
//   - GeoPoint: a validated latitude/longitude pair with the geometric keys
//     (bearing from an origin, squared distance) the sweep algorithms sort by
//
// Both types are immutable value objects whose zero values are invalid; they
// must be created through their constructor functions. Keeping the bearing
// and distance math next to the coordinate validation guarantees that no
// algorithm ever computes a sort key from a half-initialized coordinate pair.
package kernel
