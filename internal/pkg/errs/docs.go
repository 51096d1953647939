// Package errs provides standardized error types for the route-generation
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ValueIsOutOfRangeError: for when a numeric value is outside its bounds
//   - ObjectNotFoundError: for when an object cannot be found
//   - InfeasibleConstraintError: for capacity constraints that are
//     mathematically impossible to satisfy
//   - TimeoutExceededError: for computations that ran past their wall-clock
//     bound
//   - ExternalServiceError: for failures reported by remote services
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The sentinels matter operationally: callers must be able to tell an
// impossible request (ErrConstraintIsInfeasible) apart from one that merely
// took too long (ErrTimeoutExceeded), because only the latter is worth
// retrying with a larger bound.
package errs
