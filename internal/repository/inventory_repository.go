package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
	"github.com/iliyamo/foodtruck-reservation/internal/model"
)

// InventoryRepo manages the per-(location, date) unit ledger.  A row's
// presence means staff entered a total for the day; the available
// count is always derived from reservations, never stored.
type InventoryRepo struct{ DB *sql.DB }

// NewInventoryRepo returns an InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

const inventoryColumns = `id, location_id, DATE_FORMAT(inventory_date, '%Y-%m-%d'), total_units, created_at, updated_at`

func scanInventory(row interface{ Scan(...any) error }) (*model.DailyInventory, error) {
	var inv model.DailyInventory
	err := row.Scan(&inv.ID, &inv.LocationID, &inv.Date, &inv.TotalUnits, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SetTotal upserts the staff-entered total for (location, date).  A
// unique key on (location_id, date) makes the second write of a day an
// overwrite.
func (r *InventoryRepo) SetTotal(ctx context.Context, locationID uint64, date string, totalUnits int) (*model.DailyInventory, error) {
	const q = `INSERT INTO daily_inventory (location_id, inventory_date, total_units)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE total_units = VALUES(total_units)`
	if _, err := r.DB.ExecContext(ctx, q, locationID, date, totalUnits); err != nil {
		return nil, err
	}
	return r.Get(ctx, locationID, date)
}

// Get returns the day's record or (nil, nil) when staff has not
// entered a total yet.
func (r *InventoryRepo) Get(ctx context.Context, locationID uint64, date string) (*model.DailyInventory, error) {
	const q = `SELECT ` + inventoryColumns + ` FROM daily_inventory WHERE location_id = ? AND inventory_date = ? LIMIT 1`
	inv, err := scanInventory(r.DB.QueryRowContext(ctx, q, locationID, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

// CommittedUnits sums the unit counts of CONFIRMED reservations for
// (location, date).  Cancelled, completed and no-show rows do not
// hold units.
func (r *InventoryRepo) CommittedUnits(ctx context.Context, locationID uint64, date string) (int, error) {
	const q = `SELECT COALESCE(SUM(unit_count), 0) FROM reservations
		WHERE location_id = ? AND reservation_date = ? AND status = ?`
	var sum int
	err := r.DB.QueryRowContext(ctx, q, locationID, date, string(booking.StatusConfirmed)).Scan(&sum)
	return sum, err
}

// CountReservations counts all reservations for (location, date)
// regardless of status.
func (r *InventoryRepo) CountReservations(ctx context.Context, locationID uint64, date string) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE location_id = ? AND reservation_date = ?`
	var count int
	err := r.DB.QueryRowContext(ctx, q, locationID, date).Scan(&count)
	return count, err
}

// ReduceTotal lowers the day's total, floored at zero.  Returns
// (nil, nil) when no record exists for the day.
func (r *InventoryRepo) ReduceTotal(ctx context.Context, locationID uint64, date string, byUnits int) (*model.DailyInventory, error) {
	const q = `UPDATE daily_inventory SET total_units = GREATEST(total_units - ?, 0)
		WHERE location_id = ? AND inventory_date = ?`
	if _, err := r.DB.ExecContext(ctx, q, byUnits, locationID, date); err != nil {
		return nil, err
	}
	// Get distinguishes the missing-row case for the caller.
	return r.Get(ctx, locationID, date)
}
