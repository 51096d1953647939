// Package fleetrouting calls an external fleet-optimization service to
// order delivery locations into vehicle routes.
//
// The request model is one vehicle per route starting at the warehouse,
// one forced pickup per vehicle at the warehouse so no vehicle is left
// idle, and one unit-demand delivery per location. Shipment indices
// 0..numRoutes-1 are therefore reserved for the forced pickups, and a
// delivery's shipment index minus numRoutes is the index into the input
// location slice.
package fleetrouting
