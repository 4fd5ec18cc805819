package booking

// Status is the lifecycle state of a reservation.  Reservations are
// admitted directly as CONFIRMED (there is no pending step in the
// current workflow) and can only ever move forward:
//
//	      CONFIRMED  ◄── starting point (auto-confirmed)
//	          │
//	 ┌────────┼────────┐
//	 ▼        ▼        ▼
//	CANCELLED COMPLETED NO_SHOW   (terminal)
//
// PENDING exists only on historical rows written before auto-confirm;
// it is accepted on input but never produced by new admissions.
type Status string

const (
	// StatusPending is a legacy value kept for backward compatibility
	// with pre-auto-confirm data.  New reservations never get it.
	StatusPending Status = "PENDING"

	// StatusConfirmed is the starting state of every new reservation.
	StatusConfirmed Status = "CONFIRMED"

	// StatusCancelled means the customer or staff cancelled.  Terminal.
	StatusCancelled Status = "CANCELLED"

	// StatusCompleted means the order was picked up.  Terminal.
	StatusCompleted Status = "COMPLETED"

	// StatusNoShow means the customer never showed up.  Terminal.
	StatusNoShow Status = "NO_SHOW"
)

// ParseStatus maps a raw string onto a known Status.  The second
// return value is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return Status(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// CanCancel reports whether a cancellation is allowed from this state.
func (s Status) CanCancel() bool {
	return s == StatusConfirmed || s == StatusPending
}

// CanTransitionTo reports whether the transition s -> next is allowed
// by the state machine.  Terminal states allow nothing, including
// transitions to themselves.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		// Legacy rows may still be confirmed or cancelled.
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusNoShow || next == StatusCancelled
	default:
		return false
	}
}
