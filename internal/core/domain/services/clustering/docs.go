// Package clustering contains the pluggable first stage of route
// generation: partitioning delivery locations into per-vehicle clusters.
//
// Every strategy implements Algorithm and obeys the same contract: the
// output clusters are an exact partition of the input (no location lost,
// none duplicated), capacity caps are respected, impossible requests fail
// fast with an infeasible-constraint error, and slow runs fail with a
// timeout error rather than blocking the worker.
//
// Strategies are pure in-memory functions with no database interaction;
// the worker resolves locations first and persists routes afterwards.
package clustering
