// Package errs defines the error taxonomy shared across features.
//
// The categories map to how a failure is handled: validation failures reject
// a single record, conflicts surface to the operator, stale events are
// counted and dropped, ambiguous correlations are recorded unmatched.
// Callers classify with errors.As via the Is* helpers.
package errs
