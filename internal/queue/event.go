// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// ReservationConfirmedEvent is published when a reservation is
// admitted.  It carries enough context for downstream consumers to
// log, notify or feed analytics without touching the primary database.
type ReservationConfirmedEvent struct {
	ReservationID    uint64  `json:"reservation_id"`
	ConfirmationCode string  `json:"confirmation_code"`
	LocationID       uint64  `json:"location_id"`
	LocationName     string  `json:"location_name"`
	CustomerName     string  `json:"customer_name"`
	UnitCount        int     `json:"unit_count"`
	SideCount        int     `json:"side_count"`
	Date             string  `json:"date"`
	PickupTime       *string `json:"pickup_time,omitempty"`
	ConfirmedAt      string  `json:"confirmed_at"`
}
