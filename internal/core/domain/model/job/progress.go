package job

import (
	"fmt"

	"fooddrop/internal/pkg/errs"
)

// Progress represents the lifecycle state of a route-generation job.
// It implements a state machine with defined transitions so that jobs
// move through the queue in one direction only.
//
// State transitions:
//
//	Pending ──> Queued ──> Running ──┬──> Completed
//	              ^          │       │
//	              └──────────┘       └──> Failed
//	           (orphan requeue)
//
// Progress is a value object that validates state transitions and
// provides string representations for persistence and display.
type Progress int

const (
	// Unknown represents an invalid or undefined progress.
	// This value (0) helps catch uninitialized Progress values.
	Unknown Progress = iota

	// Pending is the initial progress when a job row is first inserted.
	// Pending jobs are not yet visible to workers.
	Pending

	// Queued indicates the job is waiting to be claimed by a worker.
	Queued

	// Running indicates a worker has claimed the job and is generating
	// routes for it.
	Running

	// Completed indicates routes were generated and persisted.
	// This is a final state with no further transitions allowed.
	Completed

	// Failed indicates the run ended with an error, recorded in the
	// job's message. This is a final state; jobs are never retried
	// automatically.
	Failed
)

// getProgressStrings returns a map of Progress values to their string
// representations. All values are included for string conversion.
func getProgressStrings() map[Progress]string {
	return map[Progress]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Queued:    "Queued",
		Running:   "Running",
		Completed: "Completed",
		Failed:    "Failed",
	}
}

// getValidProgressStrings returns a map of only valid Progress values.
func getValidProgressStrings() map[Progress]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Progress]string{
		Pending:   "Pending",
		Queued:    "Queued",
		Running:   "Running",
		Completed: "Completed",
		Failed:    "Failed",
	}
}

// ProgressFromString parses the persistence/display representation back
// into a Progress value. Used when rehydrating jobs from the database and
// when filtering job listings by progress.
func ProgressFromString(s string) (Progress, error) {
	for p, str := range getValidProgressStrings() {
		if str == s {
			return p, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("progress is invalid",
		fmt.Errorf("%q is not a valid progress", s))
}

// Validate checks if the Progress value is valid.
// Unknown (0) and any other values are invalid.
func (p Progress) Validate() error {
	if _, ok := getValidProgressStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("progress is invalid",
			fmt.Errorf("%d is not a valid progress", p))
	}
	return nil
}

// String returns the human-readable name of the progress.
// This method implements the fmt.Stringer interface and is safe to call
// on any Progress value, including invalid ones.
func (p Progress) String() string {
	if str, ok := getProgressStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the progress is a final state.
// Terminal jobs accept no further transitions.
func (p Progress) IsTerminal() bool {
	return p == Completed || p == Failed
}

// Queue transitions the progress to Queued.
//
// Valid transitions:
//   - Pending -> Queued (enqueue after insert)
//   - Running -> Queued (orphan requeue at worker startup)
func (p Progress) Queue() (Progress, error) {
	if p != Pending && p != Running {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"progress is invalid",
			fmt.Errorf("%s is not a valid progress to queue", p.String()),
		)
	}

	return Queued, nil
}

// Start transitions the progress to Running.
//
// Valid transitions:
//   - Queued -> Running (worker claimed the job)
func (p Progress) Start() (Progress, error) {
	if p != Queued {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"progress is invalid",
			fmt.Errorf("%s is not a valid progress to start", p.String()),
		)
	}

	return Running, nil
}

// Complete transitions the progress to Completed.
//
// Valid transitions:
//   - Running -> Completed (routes generated and persisted)
func (p Progress) Complete() (Progress, error) {
	if p != Running {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"progress is invalid",
			fmt.Errorf("%s is not a valid progress to complete", p.String()),
		)
	}

	return Completed, nil
}

// Fail transitions the progress to Failed.
//
// Valid transitions:
//   - Running -> Failed (run errored or timed out)
func (p Progress) Fail() (Progress, error) {
	if p != Running {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"progress is invalid",
			fmt.Errorf("%s is not a valid progress to fail", p.String()),
		)
	}

	return Failed, nil
}
