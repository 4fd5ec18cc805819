package model

// ScheduleEntry defines the weekly operating hours of a location for
// one ISO weekday (1=Monday .. 7=Sunday).  At most one active entry
// exists per (location, day); the booking path only ever reads these.
// Times are zero-padded "HH:MM" strings so that lexical comparison
// matches chronological order.
//
// Fields:
//  ID          – primary key identifier.
//  LocationID  – location this entry belongs to.
//  DayOfWeek   – ISO weekday, 1=Monday through 7=Sunday.
//  OpeningTime – opening time of day ("HH:MM"), strictly before closing.
//  ClosingTime – closing time of day ("HH:MM").
//  IsActive    – whether the location is open on this day.
type ScheduleEntry struct {
	ID          uint64 `json:"id"`           // location_schedules.id
	LocationID  uint64 `json:"location_id"`  // location_schedules.location_id
	DayOfWeek   int    `json:"day_of_week"`  // location_schedules.day_of_week (1..7 ISO)
	OpeningTime string `json:"opening_time"` // location_schedules.opening_time ("HH:MM")
	ClosingTime string `json:"closing_time"` // location_schedules.closing_time ("HH:MM")
	IsActive    bool   `json:"is_active"`    // location_schedules.is_active
}
