// Package fault defines the engine's error taxonomy. Every failing
// operation returns one of three caller-recoverable kinds: validation,
// not-found, or conflict. Callers branch with errors.Is against the
// sentinel kinds; the typed errors carry the context needed for a
// human-readable message.
package fault

import (
	"errors"
	"fmt"
)

// Sentinel kinds for engine errors.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// ValidationError reports malformed or missing required input, naming the
// offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap ties the error to ErrValidation for errors.Is checks.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a ValidationError for field with a reason.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Kind string // "session", "evaluation", "presenter", "evaluator", "board"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Unwrap ties the error to ErrNotFound for errors.Is checks.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a NotFoundError for the given entity kind and id.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// ConflictError reports that an operation would violate a uniqueness
// invariant: a participant double-booked on a date, or a board already
// assigned. Occupant identifies what currently holds the contested slot.
type ConflictError struct {
	Subject  string // the participant or board the caller tried to place
	Slot     string // the contested slot: a day key or a board id
	Occupant string // the session or presenter already holding the slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already booked for %s (held by %s)", e.Subject, e.Slot, e.Occupant)
}

// Unwrap ties the error to ErrConflict for errors.Is checks.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflict creates a ConflictError.
func NewConflict(subject, slot, occupant string) *ConflictError {
	return &ConflictError{Subject: subject, Slot: slot, Occupant: occupant}
}
