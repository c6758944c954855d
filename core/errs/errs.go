package errs

import (
	"errors"
	"fmt"
)

// Operator-facing reason codes. Handlers return these verbatim so the
// Operations UI can present a specific failure instead of a generic error.
const (
	ReasonTagAssigned     = "tag already assigned"
	ReasonUnknownContract = "unknown contract"
	ReasonUnknownItem     = "unknown item"
	ReasonUnknownTag      = "unknown tag"
	ReasonUnitRetired     = "unit already sold"
)

// ValidationError marks malformed input. The offending record is rejected
// and logged, never partially applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
	}
	return "validation failed: " + e.Reason
}

// ConflictError marks an identity or store-mapping collision. It is
// rejected and surfaced to the operator.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// StaleEventError marks a scan event older than the state already applied.
// Stale events are silently discarded and counted, not failed.
type StaleEventError struct {
	TagID string
}

func (e *StaleEventError) Error() string {
	return "stale event for tag " + e.TagID
}

// AmbiguityError marks a correlation with multiple equally scored
// candidates. The item is recorded unmatched rather than guessed.
type AmbiguityError struct {
	ItemNum    string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous correlation for item %s (%d candidates)", e.ItemNum, len(e.Candidates))
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsStaleEvent reports whether err is a StaleEventError.
func IsStaleEvent(err error) bool {
	var target *StaleEventError
	return errors.As(err, &target)
}

// IsAmbiguity reports whether err is an AmbiguityError.
func IsAmbiguity(err error) bool {
	var target *AmbiguityError
	return errors.As(err, &target)
}
