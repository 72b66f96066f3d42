// Package validate holds the pure admission checks consulted by the
// allocation engine. Nothing here mutates state; each check inspects the
// proposed transition against records the caller resolved from the store
// and returns either nil or a typed validation error.
package validate

import (
	"errors"
	"fmt"
	"time"

	"github.com/maitred-run/maitred/internal/entity"
)

// Error is a validation failure with a stable kind code.
type Error struct {
	Kind    Kind
	Message string
}

// Kind categorizes validation failures.
type Kind string

const (
	KindCapacityExceeded   Kind = "CAPACITY_EXCEEDED"
	KindTimeConflict       Kind = "TIME_CONFLICT"
	KindIllegalTransition  Kind = "ILLEGAL_TRANSITION"
	KindTableNotOccupiable Kind = "TABLE_NOT_OCCUPIABLE"
)

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether err is a validation error of the given kind.
func Is(err error, kind Kind) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}

// CheckCapacity fails with CapacityExceeded when the party is not at
// least one guest, does not fit the table's declared capacity, or
// exceeds the policy cap. Declared
// capacity is used as-is; there is no partial-seating model.
func CheckCapacity(table entity.Table, partySize int, p entity.Policy) error {
	if partySize < 1 {
		return &Error{
			Kind:    KindCapacityExceeded,
			Message: fmt.Sprintf("party size must be at least 1, got %d", partySize),
		}
	}
	if partySize > table.Capacity {
		return &Error{
			Kind:    KindCapacityExceeded,
			Message: fmt.Sprintf("party of %d exceeds capacity %d of table %s", partySize, table.Capacity, table.ID),
		}
	}
	if p.MaxPartySize > 0 && partySize > p.MaxPartySize {
		return &Error{
			Kind:    KindCapacityExceeded,
			Message: fmt.Sprintf("party of %d exceeds the house maximum of %d", partySize, p.MaxPartySize),
		}
	}
	return nil
}

// CheckReservationOverlap fails with TimeConflict when any active (not
// cancelled, not no-show) reservation on the table overlaps the proposed
// half-open window. Reservations without a duration hint occupy the
// policy's default service window for overlap purposes.
func CheckReservationOverlap(tableID string, proposed entity.Window, existing []entity.Reservation, p entity.Policy) error {
	for _, r := range existing {
		if r.TableID != tableID || !r.Status.Active() {
			continue
		}
		if w := r.Window(p); w.Overlaps(proposed) {
			return &Error{
				Kind:    KindTimeConflict,
				Message: fmt.Sprintf("window %s conflicts with reservation %s %s on table %s", proposed, r.ID, w, tableID),
			}
		}
	}
	return nil
}

// legalTransitions is the closed set of table status transitions the
// engine may commit. Any pair absent from the set is illegal, including
// self-transitions.
var legalTransitions = map[[2]entity.TableStatus]bool{
	{entity.TableFree, entity.TableOccupied}:     true,
	{entity.TableFree, entity.TableReserved}:     true,
	{entity.TableReserved, entity.TableOccupied}: true,
	{entity.TableOccupied, entity.TableFree}:     true,
	{entity.TableReserved, entity.TableFree}:     true,
	{entity.TableOutOfService, entity.TableFree}: true,
}

// CheckStatusTransition fails with IllegalTransition unless the requested
// table status change is in the legal set. Any status may move to
// OutOfService.
func CheckStatusTransition(current, requested entity.TableStatus) error {
	if requested == entity.TableOutOfService && current != entity.TableOutOfService {
		return nil
	}
	if legalTransitions[[2]entity.TableStatus{current, requested}] {
		return nil
	}
	return &Error{
		Kind:    KindIllegalTransition,
		Message: fmt.Sprintf("cannot transition table from %s to %s", current, requested),
	}
}

// CheckOrderEligibility fails with TableNotOccupiable unless the table's
// status admits new orders: Occupied, or Reserved with the party arriving.
func CheckOrderEligibility(status entity.TableStatus) error {
	if status == entity.TableOccupied || status == entity.TableReserved {
		return nil
	}
	return &Error{
		Kind:    KindTableNotOccupiable,
		Message: fmt.Sprintf("orders require an occupied or reserved table, status is %s", status),
	}
}

// CheckDuration fails with TimeConflict when a declared duration hint
// falls outside the policy bounds. A zero duration is always acceptable;
// it means the default service window applies.
func CheckDuration(d time.Duration, p entity.Policy) error {
	if d == 0 {
		return nil
	}
	if d < p.MinDuration || d > p.MaxDuration {
		return &Error{
			Kind:    KindTimeConflict,
			Message: fmt.Sprintf("duration %s outside the allowed range [%s, %s]", d, p.MinDuration, p.MaxDuration),
		}
	}
	return nil
}
