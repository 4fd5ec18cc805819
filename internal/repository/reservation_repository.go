package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
	"github.com/iliyamo/foodtruck-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations, including
// the capacity-checked admission.  All timestamp fields are stored in
// UTC; the reservation date is a DATE column exposed as "YYYY-MM-DD".
type ReservationRepo struct{ DB *sql.DB }

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = `id, confirmation_code, location_id, customer_name, customer_email,
	unit_count, side_count, DATE_FORMAT(reservation_date, '%Y-%m-%d'), TIME_FORMAT(pickup_time, '%H:%i'),
	status, notes, created_at, updated_at`

// scanReservation reads one reservations row.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var email, pickup, notes sql.NullString
	err := row.Scan(&res.ID, &res.ConfirmationCode, &res.LocationID, &res.CustomerName, &email,
		&res.UnitCount, &res.SideCount, &res.Date, &pickup,
		&res.Status, &notes, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		res.CustomerEmail = &v
	}
	if pickup.Valid {
		v := pickup.String
		res.PickupTime = &v
	}
	if notes.Valid {
		v := notes.String
		res.Notes = &v
	}
	return &res, nil
}

// Admit atomically checks remaining capacity and inserts the
// reservation.  The daily_inventory row for (location, date) is locked
// FOR UPDATE so concurrent admissions for the same day serialize; the
// committed sum is recomputed under that lock, which makes overselling
// impossible.  Returns booking.ErrInventoryNotSet when no total exists
// for the day, *booking.CapacityExceededError when the request does
// not fit, and booking.ErrCodeTaken when the confirmation code lost a
// race against a concurrent insert.
func (r *ReservationRepo) Admit(ctx context.Context, res *model.Reservation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the day's inventory row.  Everything below happens under
	// this lock.
	const invQ = `SELECT total_units FROM daily_inventory WHERE location_id = ? AND inventory_date = ? FOR UPDATE`
	var total int
	err = tx.QueryRowContext(ctx, invQ, res.LocationID, res.Date).Scan(&total)
	if err == sql.ErrNoRows {
		return booking.ErrInventoryNotSet
	}
	if err != nil {
		return err
	}

	const sumQ = `SELECT COALESCE(SUM(unit_count), 0) FROM reservations
		WHERE location_id = ? AND reservation_date = ? AND status = ?`
	var committed int
	if err := tx.QueryRowContext(ctx, sumQ, res.LocationID, res.Date, string(booking.StatusConfirmed)).Scan(&committed); err != nil {
		return err
	}
	available := total - committed
	if available < 0 {
		// A later ReduceTotal can push the total below the committed
		// sum; the shortfall is never reported as negative capacity.
		available = 0
	}
	if res.UnitCount > available {
		return &booking.CapacityExceededError{Requested: res.UnitCount, Available: available}
	}

	const insQ = `INSERT INTO reservations
		(confirmation_code, location_id, customer_name, customer_email, unit_count, side_count, reservation_date, pickup_time, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, insQ,
		res.ConfirmationCode, res.LocationID, res.CustomerName, res.CustomerEmail,
		res.UnitCount, res.SideCount, res.Date, res.PickupTime, res.Status, res.Notes)
	if err != nil {
		if isDuplicateEntry(err) {
			// Unique index on confirmation_code.
			return booking.ErrCodeTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Read back DB-defaulted timestamps before committing.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches one reservation.  Returns (nil, nil) when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? LIMIT 1`
	res, err := scanReservation(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return res, err
}

// GetByCode fetches one reservation by its (already upper-cased)
// confirmation code.  Returns (nil, nil) when absent.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE confirmation_code = ? LIMIT 1`
	res, err := scanReservation(r.DB.QueryRowContext(ctx, q, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return res, err
}

// CodeExists reports whether any reservation ever used the code.
func (r *ReservationRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reservations WHERE confirmation_code = ?)`
	var exists bool
	err := r.DB.QueryRowContext(ctx, q, code).Scan(&exists)
	return exists, err
}

// ListForDay returns the day's reservations ordered by pickup time
// ascending with unscheduled pickups last.
func (r *ReservationRepo) ListForDay(ctx context.Context, locationID uint64, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE location_id = ? AND reservation_date = ?
		ORDER BY pickup_time IS NULL, pickup_time ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, q, locationID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Transition applies a guarded status change.  The row is locked FOR
// UPDATE so the guard and the write are atomic; two concurrent
// transitions on the same reservation cannot both pass the check.
// Returns (nil, nil) when the reservation is absent and
// *booking.InvalidTransitionError when the state machine forbids the
// change.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, to booking.Status, notes *string) (*model.Reservation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const lockQ = `SELECT status FROM reservations WHERE id = ? FOR UPDATE`
	var current string
	err = tx.QueryRowContext(ctx, lockQ, id).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	from := booking.Status(current)
	if !from.CanTransitionTo(to) {
		return nil, &booking.InvalidTransitionError{From: from, To: to}
	}

	if notes != nil {
		const upd = `UPDATE reservations SET status = ?, notes = ? WHERE id = ?`
		_, err = tx.ExecContext(ctx, upd, string(to), *notes, id)
	} else {
		const upd = `UPDATE reservations SET status = ? WHERE id = ?`
		_, err = tx.ExecContext(ctx, upd, string(to), id)
	}
	if err != nil {
		return nil, err
	}

	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelByCode cancels the reservation behind a confirmation code.
// Same locking and guard discipline as Transition.  Returns (nil, nil)
// when the code matches nothing.
func (r *ReservationRepo) CancelByCode(ctx context.Context, code string) (*model.Reservation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const lockQ = `SELECT id, status FROM reservations WHERE confirmation_code = ? FOR UPDATE`
	var id uint64
	var current string
	err = tx.QueryRowContext(ctx, lockQ, code).Scan(&id, &current)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	from := booking.Status(current)
	if !from.CanCancel() {
		return nil, &booking.InvalidTransitionError{From: from, To: booking.StatusCancelled}
	}

	const upd = `UPDATE reservations SET status = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, string(booking.StatusCancelled), id); err != nil {
		return nil, err
	}

	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(tx.QueryRowContext(ctx, sel, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}
