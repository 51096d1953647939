// Package routing contains the second stage of route generation: turning
// a location set into ordered per-vehicle stop sequences.
//
// Two implementations exist. SweepRouter is the local heuristic: it
// delegates partitioning to a clustering strategy and orders each
// cluster by the angular sweep around the warehouse. The fleetrouting
// adapter implements the same contract against an external
// fleet-optimization API; the composition root picks one based on
// configuration.
package routing
