package model

import "time"

// Location represents a spot where the food truck parks and serves
// customers (e.g. "Innenstadt", "Gewerbegebiet").  Locations are the
// primary organizational unit: schedules, daily inventory and
// reservations all reference a location.  This struct corresponds to
// a row in the `locations` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique display name.
//  Address   – street address shown to customers.
//  Latitude  – optional geocoordinate (nil when not set).
//  Longitude – optional geocoordinate (nil when not set).
//  IsActive  – whether the location currently accepts reservations.
//  CreatedAt – timestamp when the location was created.
//  UpdatedAt – timestamp of last update.
type Location struct {
	ID        uint64    `json:"id"`         // locations.id
	Name      string    `json:"name"`       // locations.name
	Address   string    `json:"address"`    // locations.address
	Latitude  *float64  `json:"latitude"`   // locations.latitude (nullable)
	Longitude *float64  `json:"longitude"`  // locations.longitude (nullable)
	IsActive  bool      `json:"is_active"`  // locations.is_active
	CreatedAt time.Time `json:"created_at"` // locations.created_at
	UpdatedAt time.Time `json:"updated_at"` // locations.updated_at
}
