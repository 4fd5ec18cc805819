package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/foodtruck-reservation/internal/model"
)

// ScheduleRepo provides access to the weekly schedule table.  Opening
// and closing times are stored as TIME columns and exposed as "HH:MM"
// strings; lexical comparison on that format is chronological.
type ScheduleRepo struct{ DB *sql.DB }

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db} }

const scheduleColumns = `id, location_id, day_of_week,
	TIME_FORMAT(opening_time, '%H:%i'), TIME_FORMAT(closing_time, '%H:%i'), is_active`

// FindActive returns the active entry for (location, ISO day) or
// (nil, nil) when the location is closed that day.
func (r *ScheduleRepo) FindActive(ctx context.Context, locationID uint64, dayOfWeek int) (*model.ScheduleEntry, error) {
	const q = `SELECT ` + scheduleColumns + `
		FROM location_schedules WHERE location_id = ? AND day_of_week = ? AND is_active = 1 LIMIT 1`
	var e model.ScheduleEntry
	err := r.DB.QueryRowContext(ctx, q, locationID, dayOfWeek).Scan(
		&e.ID, &e.LocationID, &e.DayOfWeek, &e.OpeningTime, &e.ClosingTime, &e.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListActive returns all active entries for a location ordered by day.
func (r *ScheduleRepo) ListActive(ctx context.Context, locationID uint64) ([]model.ScheduleEntry, error) {
	const q = `SELECT ` + scheduleColumns + `
		FROM location_schedules WHERE location_id = ? AND is_active = 1 ORDER BY day_of_week`
	rows, err := r.DB.QueryContext(ctx, q, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ScheduleEntry, 0)
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.LocationID, &e.DayOfWeek, &e.OpeningTime, &e.ClosingTime, &e.IsActive); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert creates or overwrites the entry for (location, day).  The
// table carries a unique key on (location_id, day_of_week) so a second
// write for the same day updates in place.
func (r *ScheduleRepo) Upsert(ctx context.Context, entry *model.ScheduleEntry) error {
	const q = `INSERT INTO location_schedules (location_id, day_of_week, opening_time, closing_time, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			opening_time = VALUES(opening_time),
			closing_time = VALUES(closing_time),
			is_active = VALUES(is_active)`
	if _, err := r.DB.ExecContext(ctx, q,
		entry.LocationID, entry.DayOfWeek, entry.OpeningTime, entry.ClosingTime, entry.IsActive); err != nil {
		return err
	}
	// Read back: LastInsertId is unreliable on the update path.
	const sel = `SELECT id FROM location_schedules WHERE location_id = ? AND day_of_week = ? LIMIT 1`
	return r.DB.QueryRowContext(ctx, sel, entry.LocationID, entry.DayOfWeek).Scan(&entry.ID)
}
