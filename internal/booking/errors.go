// Package booking implements the allocation core of the food-truck
// reservation service: the schedule and inventory lookups, the atomic
// capacity admission, the reservation state machine and the
// confirmation-code generator.  It is storage-agnostic; persistence
// is supplied through the interfaces declared in engine.go.
//
// All expected, recoverable outcomes are returned as the typed errors
// in this file so that the transport layer can render precise
// responses.  Anything else that bubbles out of the core is an
// infrastructure fault.
package booking

import (
	"errors"
	"fmt"
)

// Rule codes carried by BusinessRuleError.  These are stable,
// machine-readable identifiers; callers branch on them.
const (
	RuleLocationInactive = "LOCATION_INACTIVE"
	RuleMinOrderQuantity = "MIN_ORDER_QUANTITY"
	RuleLocationClosed   = "LOCATION_CLOSED"
	RuleInventoryNotSet  = "INVENTORY_NOT_SET"
	RulePickupInPast     = "PICKUP_IN_PAST"
	RuleOutsideHours     = "OUTSIDE_OPENING_HOURS"
)

// Sentinel errors used between the engine and its stores.
var (
	// ErrCodeTaken is returned by ReservationStore.Admit when the
	// confirmation code lost a race against a concurrent insert.  The
	// engine regenerates the code and retries.
	ErrCodeTaken = errors.New("confirmation code already taken")

	// ErrInventoryNotSet is returned by stores when no staff-entered
	// total exists for the (location, date) key.
	ErrInventoryNotSet = errors.New("inventory not set")

	// ErrDuplicateName is returned by LocationSource.Create when the
	// location name is already in use.
	ErrDuplicateName = errors.New("location name already exists")
)

// NotFoundError reports an absent location, reservation or code.
type NotFoundError struct {
	Resource string // "location" | "reservation"
	Key      string // offending identifier as given by the caller
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// ValidationError reports malformed input: bad time strings, negative
// counts, missing required fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BusinessRuleError reports a well-formed request that a business rule
// rejects (location inactive, closed today, inventory not entered,
// pickup outside hours...).  Rule is one of the Rule* constants.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// CapacityExceededError reports an admission that asked for more
// units than the day has left.  Both numbers are included so the
// caller can render "requested X, only Y available".
type CapacityExceededError struct {
	Requested int
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("requested %d units but only %d available", e.Requested, e.Available)
}

// InvalidTransitionError reports a status change the state machine
// forbids, including any attempt to leave a terminal state.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// ConflictError reports a uniqueness conflict on reference data,
// currently only duplicate location names.
type ConflictError struct {
	Resource string
	Name     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Name)
}
