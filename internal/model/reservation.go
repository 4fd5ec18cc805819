package model

import "time"

// Reservation records a customer's same-day order for pickup at a
// location.  The confirmation code doubles as an unauthenticated
// capability token: whoever holds it can look the reservation up and
// cancel it.  Customer email is deliberately optional to keep the
// barrier for customers low.  Reservations are never deleted;
// cancellation is a status, not a row removal.
//
// Fields:
//  ID               – primary key identifier.
//  ConfirmationCode – unique 8-character lookup code.
//  LocationID       – location the order will be picked up at.
//  CustomerName     – required display name.
//  CustomerEmail    – optional contact email (nil when not given).
//  UnitCount        – capacity-constrained units ordered.
//  SideCount        – side items ordered; no capacity constraint.
//  Date             – reservation date ("YYYY-MM-DD"), always "today"
//                     at creation time.
//  PickupTime       – optional pickup time of day ("HH:MM").
//  Status           – reservation lifecycle state (see booking.Status).
//  Notes            – freeform staff notes.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Reservation struct {
	ID               uint64    `json:"id"`                // reservations.id
	ConfirmationCode string    `json:"confirmation_code"` // reservations.confirmation_code (unique)
	LocationID       uint64    `json:"location_id"`       // reservations.location_id
	CustomerName     string    `json:"customer_name"`     // reservations.customer_name
	CustomerEmail    *string   `json:"customer_email"`    // reservations.customer_email (nullable)
	UnitCount        int       `json:"unit_count"`        // reservations.unit_count
	SideCount        int       `json:"side_count"`        // reservations.side_count
	Date             string    `json:"date"`              // reservations.reservation_date ("YYYY-MM-DD")
	PickupTime       *string   `json:"pickup_time"`       // reservations.pickup_time ("HH:MM", nullable)
	Status           string    `json:"status"`            // reservations.status
	Notes            *string   `json:"notes"`             // reservations.notes (nullable)
	CreatedAt        time.Time `json:"created_at"`        // reservations.created_at
	UpdatedAt        time.Time `json:"updated_at"`        // reservations.updated_at
}
