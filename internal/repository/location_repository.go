package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
	"github.com/iliyamo/foodtruck-reservation/internal/model"
)

// LocationRepo provides CRUD operations for truck locations.
type LocationRepo struct{ DB *sql.DB }

// NewLocationRepo returns a LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{DB: db} }

const locationColumns = `id, name, address, latitude, longitude, is_active, created_at, updated_at`

// scanLocation reads one locations row.
func scanLocation(row interface{ Scan(...any) error }) (*model.Location, error) {
	var loc model.Location
	var lat, lng sql.NullFloat64
	err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &lat, &lng,
		&loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		v := lat.Float64
		loc.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		loc.Longitude = &v
	}
	return &loc, nil
}

// GetByID fetches one location.  Returns (nil, nil) when absent.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	const q = `SELECT ` + locationColumns + ` FROM locations WHERE id = ? LIMIT 1`
	loc, err := scanLocation(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return loc, err
}

// ListActive returns all active locations ordered by name.
func (r *LocationRepo) ListActive(ctx context.Context) ([]model.Location, error) {
	const q = `SELECT ` + locationColumns + ` FROM locations WHERE is_active = 1 ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *loc)
	}
	return out, rows.Err()
}

// Create inserts a new location and populates its ID and timestamps.
// The unique index on name maps to booking.ErrDuplicateName.
func (r *LocationRepo) Create(ctx context.Context, loc *model.Location) error {
	const q = `INSERT INTO locations (name, address, latitude, longitude, is_active) VALUES (?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q, loc.Name, loc.Address, loc.Latitude, loc.Longitude, loc.IsActive)
	if err != nil {
		if isDuplicateEntry(err) {
			return booking.ErrDuplicateName
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loc.ID = uint64(id)
	// Read back to populate DB-defaulted timestamps.
	const sel = `SELECT created_at, updated_at FROM locations WHERE id = ?`
	return r.DB.QueryRowContext(ctx, sel, loc.ID).Scan(&loc.CreatedAt, &loc.UpdatedAt)
}

// Update persists changes to an existing location.  The unique index
// on name maps to booking.ErrDuplicateName when the rename collides.
func (r *LocationRepo) Update(ctx context.Context, loc *model.Location) error {
	const q = `UPDATE locations SET name = ?, address = ?, latitude = ?, longitude = ?, is_active = ? WHERE id = ?`
	if _, err := r.DB.ExecContext(ctx, q,
		loc.Name, loc.Address, loc.Latitude, loc.Longitude, loc.IsActive, loc.ID); err != nil {
		if isDuplicateEntry(err) {
			return booking.ErrDuplicateName
		}
		return err
	}
	const sel = `SELECT updated_at FROM locations WHERE id = ?`
	return r.DB.QueryRowContext(ctx, sel, loc.ID).Scan(&loc.UpdatedAt)
}
