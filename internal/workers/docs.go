// Package workers contains the background poll loop that drives route
// generation.
//
// JobWorker claims queued jobs from the database one at a time, runs the
// configured routing algorithm for the job's location group and persists
// the produced routes together with the job's final transition in one
// transaction. The claim itself relies on row locking in the job
// repository, so multiple worker processes can poll the same table
// without double-processing.
package workers
