// Package job contains the route-generation job aggregate and its
// lifecycle state machine.
//
// A Job is a durable queue entry: one row per requested route generation,
// stored in the same relational database as the domain data so that
// enqueueing a job and writing its results share transactional guarantees.
// Jobs are never deleted by the pipeline; terminal rows remain as an audit
// trail of what was generated, when, and why a run failed.
//
// The Progress state machine is:
//
//	Pending ──> Queued ──> Running ──┬──> Completed
//	              ^          │       │
//	              └──────────┘       └──> Failed
//	           (orphan requeue)
//
// Completed and Failed are terminal. The only backward edge is the orphan
// requeue a restarting worker performs for jobs a crashed process left in
// Running.
package job
