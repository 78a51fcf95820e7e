// Package errs provides the standardized error types used across the parcel
// tracking application: validation failures, missing values, out-of-range
// values and object-not-found conditions.
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound) for errors.Is checks
//   - A struct type carrying the offending parameter and an optional cause
//   - Constructor functions with and without cause
//   - Error() formatting and Unwrap() to the sentinel
//
// Handlers and adapters classify failures via the sentinels, so callers can
// map them to transport-level responses without inspecting messages.
package errs
