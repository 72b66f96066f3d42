package engine

import (
	"errors"
	"fmt"
)

// Error is a structured operation failure returned to callers.
//
// Every validation failure is detected before any mutation, so an Error
// of any kind except PersistenceFailure guarantees nothing changed.
// PersistenceFailure is returned after the in-memory commit has been
// rolled back; memory and durable storage still agree.
type Error struct {
	// Kind identifies the failure category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Ids of the records involved, when known.
	TableID       string
	ReservationID string
	OrderID       string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorKind categorizes operation failures.
type ErrorKind string

const (
	// ErrNotFound means a referenced id is absent from the store.
	ErrNotFound ErrorKind = "NOT_FOUND"

	// ErrCapacityExceeded means the party does not fit the table.
	ErrCapacityExceeded ErrorKind = "CAPACITY_EXCEEDED"

	// ErrTimeConflict means the proposed window overlaps an existing
	// reservation, or a time falls outside a policy window.
	ErrTimeConflict ErrorKind = "TIME_CONFLICT"

	// ErrIllegalTransition means the requested table or reservation
	// state change is not in the legal set.
	ErrIllegalTransition ErrorKind = "ILLEGAL_TRANSITION"

	// ErrTableNotOccupiable means an order was attempted against a
	// table that is neither occupied nor reserved.
	ErrTableNotOccupiable ErrorKind = "TABLE_NOT_OCCUPIABLE"

	// ErrConflict means the operation would contradict other live
	// records, e.g. closing a table with an open order or removing a
	// referenced table.
	ErrConflict ErrorKind = "CONFLICT"

	// ErrPersistenceFailure means the durability write failed after the
	// in-memory commit. The commit was rolled back; the operation is
	// retryable.
	ErrPersistenceFailure ErrorKind = "PERSISTENCE_FAILURE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.TableID != "" && e.ReservationID != "":
		return fmt.Sprintf("%s: %s (table=%s, reservation=%s)", e.Kind, e.Message, e.TableID, e.ReservationID)
	case e.TableID != "" && e.OrderID != "":
		return fmt.Sprintf("%s: %s (table=%s, order=%s)", e.Kind, e.Message, e.TableID, e.OrderID)
	case e.TableID != "":
		return fmt.Sprintf("%s: %s (table=%s)", e.Kind, e.Message, e.TableID)
	case e.ReservationID != "":
		return fmt.Sprintf("%s: %s (reservation=%s)", e.Kind, e.Message, e.ReservationID)
	case e.OrderID != "":
		return fmt.Sprintf("%s: %s (order=%s)", e.Kind, e.Message, e.OrderID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an engine Error of the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind ErrorKind) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}

// KindOf returns the error kind, or "" when err is not an engine Error.
func KindOf(err error) ErrorKind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
