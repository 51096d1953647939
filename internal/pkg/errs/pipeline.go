package errs

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConstraintIsInfeasible is the sentinel for capacity constraints that
	// cannot be satisfied for the given input, no matter how long the
	// computation runs.
	ErrConstraintIsInfeasible = errors.New("constraint is infeasible")

	// ErrTimeoutExceeded is the sentinel for computations that exceeded their
	// wall-clock bound.
	ErrTimeoutExceeded = errors.New("timeout exceeded")

	// ErrExternalService is the sentinel for failures reported by a remote
	// service (non-2xx status or malformed payload).
	ErrExternalService = errors.New("external service error")
)

// InfeasibleConstraintError indicates that a capacity constraint is
// mathematically impossible for the given input. Retrying is pointless; the
// caller must relax the constraint or change the input.
type InfeasibleConstraintError struct {
	ParamName string
	Required  int
	Limit     int
	Cause     error
}

// NewInfeasibleConstraintError creates an InfeasibleConstraintError for the
// named constraint, recording the value the input requires and the configured
// limit it exceeds.
func NewInfeasibleConstraintError(paramName string, required int, limit int) *InfeasibleConstraintError {
	return &InfeasibleConstraintError{ParamName: paramName, Required: required, Limit: limit}
}

// NewInfeasibleConstraintErrorWithCause creates an InfeasibleConstraintError
// wrapping an underlying cause.
func NewInfeasibleConstraintErrorWithCause(
	paramName string, required int, limit int, cause error,
) *InfeasibleConstraintError {
	return &InfeasibleConstraintError{ParamName: paramName, Required: required, Limit: limit, Cause: cause}
}

func (e *InfeasibleConstraintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s requires %d but limit is %d (cause: %s)",
			ErrConstraintIsInfeasible, sanitize(e.ParamName), e.Required, e.Limit, e.Cause)
	}
	return fmt.Sprintf("%s: %s requires %d but limit is %d",
		ErrConstraintIsInfeasible, sanitize(e.ParamName), e.Required, e.Limit)
}

func (e *InfeasibleConstraintError) Unwrap() error {
	return ErrConstraintIsInfeasible
}

// TimeoutExceededError indicates that an operation ran past its configured
// wall-clock bound. Distinguishable from infeasibility so operators can raise
// the bound and re-enqueue.
type TimeoutExceededError struct {
	Operation string
	Timeout   time.Duration
	Elapsed   time.Duration
}

// NewTimeoutExceededError creates a TimeoutExceededError for the named
// operation.
func NewTimeoutExceededError(operation string, timeout time.Duration, elapsed time.Duration) *TimeoutExceededError {
	return &TimeoutExceededError{Operation: operation, Timeout: timeout, Elapsed: elapsed}
}

func (e *TimeoutExceededError) Error() string {
	return fmt.Sprintf("%s: %s took %s, limit is %s",
		ErrTimeoutExceeded, sanitize(e.Operation), e.Elapsed, e.Timeout)
}

func (e *TimeoutExceededError) Unwrap() error {
	return ErrTimeoutExceeded
}

// ExternalServiceError indicates that a remote service call failed. StatusCode
// is zero when the failure happened before a status was received (transport
// error, malformed body).
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Message    string
	Cause      error
}

// NewExternalServiceError creates an ExternalServiceError preserving the
// remote status code and message for diagnostics.
func NewExternalServiceError(service string, statusCode int, message string) *ExternalServiceError {
	return &ExternalServiceError{Service: service, StatusCode: statusCode, Message: message}
}

// NewExternalServiceErrorWithCause creates an ExternalServiceError wrapping an
// underlying cause.
func NewExternalServiceErrorWithCause(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Cause: cause}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrExternalService, sanitize(e.Service), e.Cause)
	}
	return fmt.Sprintf("%s: %s returned status %d: %s",
		ErrExternalService, sanitize(e.Service), e.StatusCode, sanitize(e.Message))
}

func (e *ExternalServiceError) Unwrap() error {
	return ErrExternalService
}
