package model

import "time"

// DailyInventory is the staff-entered unit count for one location and
// one calendar date.  There is at most one row per (location, date);
// setting inventory again for the same day overwrites TotalUnits.
// Bookings never decrement this value directly – the available count
// is always derived as TotalUnits minus the units committed by
// CONFIRMED reservations, which keeps the ledger reconstructible from
// reservation history.
//
// Fields:
//  ID         – primary key identifier.
//  LocationID – location the inventory belongs to.
//  Date       – calendar date ("YYYY-MM-DD").
//  TotalUnits – units cooked/available for the day, >= 0.
//  CreatedAt  – timestamp when the row was first created.
//  UpdatedAt  – timestamp of last overwrite.
type DailyInventory struct {
	ID         uint64    `json:"id"`          // daily_inventory.id
	LocationID uint64    `json:"location_id"` // daily_inventory.location_id
	Date       string    `json:"date"`        // daily_inventory.inventory_date ("YYYY-MM-DD")
	TotalUnits int       `json:"total_units"` // daily_inventory.total_units
	CreatedAt  time.Time `json:"created_at"`  // daily_inventory.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // daily_inventory.updated_at
}
