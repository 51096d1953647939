// Package location contains the delivery stop aggregate.
//
// A Location is a charity food-drop destination: a geocoded address with a
// box demand. The route-generation pipeline treats locations as read-only
// input; the only mutation the aggregate allows is refreshing its
// coordinates, which the periodic geocoding job performs.
//
// Every location consumed by clustering or routing must carry a properly
// constructed GeoPoint. A location without coordinates cannot be built, so a
// missing latitude or longitude is a data-integrity error at the persistence
// boundary, never something an algorithm silently skips.
package location
