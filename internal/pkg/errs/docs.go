// Package errs provides the error taxonomy shared by the order lifecycle and
// VAT accounting code.
//
// Validation failures (ValueIsRequiredError, ValueIsInvalidError,
// ValueIsOutOfRangeError) are rejected before any mutation and reported with
// IsValidation. InvalidTransitionError carries the current and requested
// state of a state machine guard failure. ObjectNotFoundError is terminal for
// the request. ConcurrentModificationError signals a lost conditional update
// and is safe to retry with a fresh read. UpstreamDependencyError wraps
// notification or evidence store failures.
//
// Each type follows the same pattern:
//   - a sentinel error variable (e.g., ErrValueIsRequired)
//   - a struct type with fields for error details
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() for errors.Is support
package errs
