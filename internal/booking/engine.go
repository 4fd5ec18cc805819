package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/foodtruck-reservation/internal/model"
)

// LocationSource supplies read-mostly location reference data.
type LocationSource interface {
	// GetByID returns the location or (nil, nil) when absent.
	GetByID(ctx context.Context, id uint64) (*model.Location, error)
	// ListActive returns all active locations.
	ListActive(ctx context.Context) ([]model.Location, error)
	// Create inserts a new location, populating its ID.  Returns
	// ErrDuplicateName when the name is taken.
	Create(ctx context.Context, loc *model.Location) error
	// Update persists changes to an existing location.  Returns
	// ErrDuplicateName when the new name is taken by another location.
	Update(ctx context.Context, loc *model.Location) error
}

// ScheduleSource supplies weekly opening hours.
type ScheduleSource interface {
	// FindActive returns the single active entry for (location, ISO
	// day) or (nil, nil) when the location is closed that day.
	FindActive(ctx context.Context, locationID uint64, dayOfWeek int) (*model.ScheduleEntry, error)
	// ListActive returns all active entries for a location, ordered
	// by day of week.
	ListActive(ctx context.Context, locationID uint64) ([]model.ScheduleEntry, error)
	// Upsert creates or overwrites the entry for (location, day).
	Upsert(ctx context.Context, entry *model.ScheduleEntry) error
}

// InventoryLedger is the per-(location, date) unit ledger.  The
// available count is always derived, never stored.
type InventoryLedger interface {
	// SetTotal upserts the staff-entered total for the day.
	SetTotal(ctx context.Context, locationID uint64, date string, totalUnits int) (*model.DailyInventory, error)
	// Get returns the day's record or (nil, nil) when staff has not
	// entered a value yet (distinct from zero).
	Get(ctx context.Context, locationID uint64, date string) (*model.DailyInventory, error)
	// CommittedUnits sums the unit counts of reservations currently
	// counting toward capacity for (location, date).
	CommittedUnits(ctx context.Context, locationID uint64, date string) (int, error)
	// CountReservations counts all reservations for (location, date)
	// regardless of status.
	CountReservations(ctx context.Context, locationID uint64, date string) (int, error)
	// ReduceTotal lowers the day's total (spoilage etc.), floored at
	// zero.  Returns (nil, nil) when no record exists.
	ReduceTotal(ctx context.Context, locationID uint64, date string, byUnits int) (*model.DailyInventory, error)
}

// ReservationStore persists reservations.  Admit is the race-sensitive
// operation: implementations must serialize it per (location, date) so
// that the committed-units read and the insert happen atomically.
type ReservationStore interface {
	// Admit atomically checks remaining capacity and commits the
	// reservation.  Returns ErrInventoryNotSet when no total exists
	// for the day, *CapacityExceededError when the request does not
	// fit, and ErrCodeTaken when the confirmation code collided with
	// a concurrent insert.
	Admit(ctx context.Context, res *model.Reservation) error
	// GetByID returns the reservation or (nil, nil) when absent.
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	// GetByCode returns the reservation for an upper-cased code or
	// (nil, nil) when absent.
	GetByCode(ctx context.Context, code string) (*model.Reservation, error)
	// CodeExists reports whether any reservation ever used the code.
	CodeExists(ctx context.Context, code string) (bool, error)
	// ListForDay returns the day's reservations ordered by pickup
	// time ascending with unset pickup times last.
	ListForDay(ctx context.Context, locationID uint64, date string) ([]model.Reservation, error)
	// Transition applies a guarded status change on a single
	// reservation row.  Returns (nil, nil) when the reservation is
	// absent and *InvalidTransitionError when the state machine
	// forbids the change.  Non-empty notes are attached.
	Transition(ctx context.Context, id uint64, to Status, notes *string) (*model.Reservation, error)
	// CancelByCode cancels the reservation behind an upper-cased
	// code.  Same contract as Transition for absence and guards.
	CancelByCode(ctx context.Context, code string) (*model.Reservation, error)
}

// Engine orchestrates the allocation core: it validates booking
// requests against schedules and the inventory ledger, drives the
// atomic admission, mints confirmation codes and guards every status
// change.  It returns plain data and typed errors; formatting and
// transport belong to the caller.
type Engine struct {
	locations LocationSource
	schedules ScheduleSource
	ledger    InventoryLedger
	store     ReservationStore
	codes     *CodeGenerator
	clock     Clock
}

// NewEngine wires an Engine.  A nil clock defaults to SystemClock.
func NewEngine(locations LocationSource, schedules ScheduleSource, ledger InventoryLedger, store ReservationStore, clock Clock) *Engine {
	if locations == nil || schedules == nil || ledger == nil || store == nil {
		panic("nil dependency passed to NewEngine")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		locations: locations,
		schedules: schedules,
		ledger:    ledger,
		store:     store,
		codes:     NewCodeGenerator(),
		clock:     clock,
	}
}

// ReservationInput is a booking request as received from the (already
// validated and typed) transport layer.
type ReservationInput struct {
	LocationID    uint64
	CustomerName  string
	CustomerEmail *string
	UnitCount     int
	SideCount     int
	PickupTime    *string // "HH:MM", optional
	Notes         *string
}

// LocationInput describes a new location.
type LocationInput struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// LocationUpdate describes changes to an existing location.  Nil
// fields are left as they are.
type LocationUpdate struct {
	Name      *string
	Address   *string
	Latitude  *float64
	Longitude *float64
	IsActive  *bool
}

// ScheduleInput describes one weekly schedule entry.
type ScheduleInput struct {
	DayOfWeek   int
	OpeningTime string // "HH:MM"
	ClosingTime string // "HH:MM"
	Active      bool
}

// CreateResult carries a freshly admitted reservation together with
// the success message customers are shown once.
type CreateResult struct {
	Reservation *model.Reservation `json:"reservation"`
	Message     string             `json:"message"`
}

// AvailabilityView is the customer-facing availability projection for
// one location and date.
type AvailabilityView struct {
	LocationID     uint64             `json:"location_id"`
	LocationName   string             `json:"location_name"`
	Date           string             `json:"date"`
	DayOfWeek      int                `json:"day_of_week"`
	OpeningTime    *string            `json:"opening_time,omitempty"`
	ClosingTime    *string            `json:"closing_time,omitempty"`
	IsOpen         bool               `json:"is_open"`
	InventorySet   bool               `json:"inventory_set"`
	TotalUnits     *int               `json:"total_units,omitempty"`
	CommittedUnits int                `json:"committed_units"`
	AvailableUnits int                `json:"available_units"`
	Status         AvailabilityStatus `json:"status"`
}

// InventoryView is the staff-facing ledger projection.
type InventoryView struct {
	LocationID       uint64             `json:"location_id"`
	LocationName     string             `json:"location_name"`
	Date             string             `json:"date"`
	InventorySet     bool               `json:"inventory_set"`
	TotalUnits       *int               `json:"total_units,omitempty"`
	CommittedUnits   int                `json:"committed_units"`
	AvailableUnits   int                `json:"available_units"`
	ReservationCount int                `json:"reservation_count"`
	UtilizationPct   float64            `json:"utilization_pct"`
	Status           AvailabilityStatus `json:"status"`
}

// CapacityView summarizes a day's capacity for staff dashboards.
type CapacityView struct {
	LocationID     uint64             `json:"location_id"`
	LocationName   string             `json:"location_name"`
	Date           string             `json:"date"`
	TotalCapacity  int                `json:"total_capacity"`
	CommittedUnits int                `json:"committed_units"`
	AvailableUnits int                `json:"available_units"`
	UtilizationPct float64            `json:"utilization_pct"`
	Status         AvailabilityStatus `json:"status"`
}

// DaySchedule groups the locations open on one ISO weekday.
type DaySchedule struct {
	DayOfWeek int                `json:"day_of_week"`
	Locations []LocationDayEntry `json:"locations"`
}

// LocationDayEntry is one open location within a DaySchedule.
type LocationDayEntry struct {
	LocationID   uint64   `json:"location_id"`
	LocationName string   `json:"location_name"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	OpeningTime  string   `json:"opening_time"`
	ClosingTime  string   `json:"closing_time"`
}

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// isoWeekday converts Go's Sunday-based weekday to ISO 1=Monday..7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// today returns the engine clock's current date in dateLayout.
func (e *Engine) today() string {
	return e.clock.Now().Format(dateLayout)
}

// resolveDate validates a caller-supplied date, defaulting "" to today.
func (e *Engine) resolveDate(date string) (string, error) {
	if date == "" {
		return e.today(), nil
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", &ValidationError{Field: "date", Message: "must be formatted YYYY-MM-DD"}
	}
	return t.Format(dateLayout), nil
}

// validClockTime checks a zero-padded "HH:MM" string.
func validClockTime(s string) bool {
	if len(s) != len(clockLayout) {
		return false
	}
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// ListActiveLocations returns all locations accepting reservations.
func (e *Engine) ListActiveLocations(ctx context.Context) ([]model.Location, error) {
	return e.locations.ListActive(ctx)
}

// GetLocation returns one location by ID.
func (e *Engine) GetLocation(ctx context.Context, id uint64) (*model.Location, error) {
	loc, err := e.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, &NotFoundError{Resource: "location", Key: fmt.Sprintf("%d", id)}
	}
	return loc, nil
}

// CreateLocation inserts a new location with a unique name.
func (e *Engine) CreateLocation(ctx context.Context, in LocationInput) (*model.Location, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, &ValidationError{Field: "address", Message: "is required"}
	}
	loc := &model.Location{
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		IsActive:  true,
	}
	if err := e.locations.Create(ctx, loc); err != nil {
		if err == ErrDuplicateName {
			return nil, &ConflictError{Resource: "location", Name: name}
		}
		return nil, err
	}
	return loc, nil
}

// UpdateLocation applies a partial update: rename, re-address, move
// the pin or flip the active flag.  Deactivating is how a location is
// retired; its reservations and history stay intact, new bookings are
// rejected.
func (e *Engine) UpdateLocation(ctx context.Context, id uint64, in LocationUpdate) (*model.Location, error) {
	loc, err := e.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Message: "must not be blank"}
		}
		loc.Name = name
	}
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			return nil, &ValidationError{Field: "address", Message: "must not be blank"}
		}
		loc.Address = addr
	}
	if in.Latitude != nil {
		loc.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		loc.Longitude = in.Longitude
	}
	if in.IsActive != nil {
		loc.IsActive = *in.IsActive
	}
	if err := e.locations.Update(ctx, loc); err != nil {
		if err == ErrDuplicateName {
			return nil, &ConflictError{Resource: "location", Name: loc.Name}
		}
		return nil, err
	}
	return loc, nil
}

// GetSchedule returns the active weekly schedule of a location.
func (e *Engine) GetSchedule(ctx context.Context, locationID uint64) ([]model.ScheduleEntry, error) {
	if _, err := e.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	return e.schedules.ListActive(ctx, locationID)
}

// CreateOrUpdateSchedule upserts the entry for (location, day).
func (e *Engine) CreateOrUpdateSchedule(ctx context.Context, locationID uint64, in ScheduleInput) (*model.ScheduleEntry, error) {
	if _, err := e.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	if in.DayOfWeek < 1 || in.DayOfWeek > 7 {
		return nil, &ValidationError{Field: "day_of_week", Message: "must be between 1 (Monday) and 7 (Sunday)"}
	}
	if !validClockTime(in.OpeningTime) {
		return nil, &ValidationError{Field: "opening_time", Message: "must be formatted HH:MM"}
	}
	if !validClockTime(in.ClosingTime) {
		return nil, &ValidationError{Field: "closing_time", Message: "must be formatted HH:MM"}
	}
	if in.OpeningTime >= in.ClosingTime {
		return nil, &ValidationError{Field: "opening_time", Message: "must be before closing time"}
	}
	entry := &model.ScheduleEntry{
		LocationID:  locationID,
		DayOfWeek:   in.DayOfWeek,
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
		IsActive:    in.Active,
	}
	if err := e.schedules.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// WeeklySchedule lists, per ISO weekday, the active locations open on
// that day.  Days without any open location are omitted.
func (e *Engine) WeeklySchedule(ctx context.Context) ([]DaySchedule, error) {
	locs, err := e.locations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byDay := make(map[int][]LocationDayEntry)
	for i := range locs {
		loc := &locs[i]
		entries, err := e.schedules.ListActive(ctx, loc.ID)
		if err != nil {
			return nil, err
		}
		for _, s := range entries {
			byDay[s.DayOfWeek] = append(byDay[s.DayOfWeek], LocationDayEntry{
				LocationID:   loc.ID,
				LocationName: loc.Name,
				Address:      loc.Address,
				Latitude:     loc.Latitude,
				Longitude:    loc.Longitude,
				OpeningTime:  s.OpeningTime,
				ClosingTime:  s.ClosingTime,
			})
		}
	}
	out := make([]DaySchedule, 0, 7)
	for day := 1; day <= 7; day++ {
		if entries, ok := byDay[day]; ok {
			out = append(out, DaySchedule{DayOfWeek: day, Locations: entries})
		}
	}
	return out, nil
}

// TodayLocations returns the active locations open on the current day.
func (e *Engine) TodayLocations(ctx context.Context) ([]model.Location, error) {
	day := isoWeekday(e.clock.Now())
	locs, err := e.locations.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]model.Location, 0, len(locs))
	for i := range locs {
		entry, err := e.schedules.FindActive(ctx, locs[i].ID, day)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			open = append(open, locs[i])
		}
	}
	return open, nil
}

// CheckAvailability builds the customer availability view for one
// location and date.  Only today is ever bookable: other dates report
// a degenerate view with inventory unset.
func (e *Engine) CheckAvailability(ctx context.Context, locationID uint64, date string) (*AvailabilityView, error) {
	loc, err := e.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	date, err = e.resolveDate(date)
	if err != nil {
		return nil, err
	}
	t, _ := time.Parse(dateLayout, date)
	day := isoWeekday(t)

	view := &AvailabilityView{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		Date:         date,
		DayOfWeek:    day,
	}

	entry, err := e.schedules.FindActive(ctx, locationID, day)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		view.Status = Classify(false, false, 0, 0)
		return view, nil
	}
	view.IsOpen = true
	view.OpeningTime = &entry.OpeningTime
	view.ClosingTime = &entry.ClosingTime

	if date != e.today() {
		// Reservations are same-day only; other dates never expose
		// an inventory.
		view.Status = Classify(true, false, 0, 0)
		return view, nil
	}

	inv, err := e.ledger.Get(ctx, locationID, date)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		view.Status = Classify(true, false, 0, 0)
		return view, nil
	}
	committed, err := e.ledger.CommittedUnits(ctx, locationID, date)
	if err != nil {
		return nil, err
	}
	available := inv.TotalUnits - committed
	if available < 0 {
		available = 0
	}
	view.InventorySet = true
	view.TotalUnits = &inv.TotalUnits
	view.CommittedUnits = committed
	view.AvailableUnits = available
	view.Status = Classify(true, true, available, inv.TotalUnits)
	return view, nil
}

// CreateReservation runs the admission protocol: resolve the location
// and today's schedule, validate the order and pickup time, then
// delegate the atomic capacity check-and-commit to the store.  The
// confirmation code is minted before the commit and retried on the
// (practically impossible) concurrent collision.
func (e *Engine) CreateReservation(ctx context.Context, in ReservationInput) (*CreateResult, error) {
	loc, err := e.GetLocation(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsActive {
		return nil, &BusinessRuleError{Rule: RuleLocationInactive, Message: "location is not active"}
	}

	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, &ValidationError{Field: "customer_name", Message: "is required"}
	}
	if in.UnitCount < 0 || in.SideCount < 0 {
		return nil, &ValidationError{Field: "unit_count", Message: "counts must not be negative"}
	}
	if in.UnitCount+in.SideCount <= 0 {
		return nil, &BusinessRuleError{Rule: RuleMinOrderQuantity, Message: "at least one product must be ordered"}
	}

	now := e.clock.Now()
	entry, err := e.schedules.FindActive(ctx, in.LocationID, isoWeekday(now))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &BusinessRuleError{Rule: RuleLocationClosed, Message: "location is closed today"}
	}

	if in.PickupTime != nil {
		pickup := *in.PickupTime
		if !validClockTime(pickup) {
			return nil, &ValidationError{Field: "pickup_time", Message: "must be formatted HH:MM"}
		}
		if pickup < now.Format(clockLayout) {
			return nil, &BusinessRuleError{Rule: RulePickupInPast, Message: "pickup time must be in the future"}
		}
		if pickup < entry.OpeningTime || pickup > entry.ClosingTime {
			return nil, &BusinessRuleError{
				Rule:    RuleOutsideHours,
				Message: fmt.Sprintf("pickup time must be within opening hours (%s - %s)", entry.OpeningTime, entry.ClosingTime),
			}
		}
	}

	res := &model.Reservation{
		LocationID:    in.LocationID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: in.CustomerEmail,
		UnitCount:     in.UnitCount,
		SideCount:     in.SideCount,
		Date:          now.Format(dateLayout),
		PickupTime:    in.PickupTime,
		Status:        string(StatusConfirmed),
		Notes:         in.Notes,
	}

	// Mint a code checked against history, then admit.  ErrCodeTaken
	// means another request inserted the same code between the check
	// and the commit; the unique index catches it and we re-mint.
	for attempt := 0; ; attempt++ {
		code, err := e.codes.EnsureUnique(ctx, e.store.CodeExists)
		if err != nil {
			return nil, err
		}
		res.ConfirmationCode = code
		err = e.store.Admit(ctx, res)
		if err == nil {
			break
		}
		if err == ErrCodeTaken && attempt < 2 {
			continue
		}
		if err == ErrInventoryNotSet {
			return nil, &BusinessRuleError{Rule: RuleInventoryNotSet, Message: "daily inventory has not been entered yet"}
		}
		return nil, err
	}

	return &CreateResult{
		Reservation: res,
		Message:     fmt.Sprintf("Reservation confirmed! Please note your confirmation code: %s", res.ConfirmationCode),
	}, nil
}

// GetReservation returns one reservation by ID.
func (e *Engine) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", Key: fmt.Sprintf("%d", id)}
	}
	return res, nil
}

// GetReservationByCode looks a reservation up by its confirmation
// code, case-insensitively.
func (e *Engine) GetReservationByCode(ctx context.Context, code string) (*model.Reservation, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, &ValidationError{Field: "confirmation_code", Message: "is required"}
	}
	res, err := e.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", Key: code}
	}
	return res, nil
}

// CancelByCode cancels the reservation behind a confirmation code.
// The code is the capability token: no further authentication is
// required, and staff and customers go through the same path.
func (e *Engine) CancelByCode(ctx context.Context, code string) (*model.Reservation, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, &ValidationError{Field: "confirmation_code", Message: "is required"}
	}
	res, err := e.store.CancelByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", Key: code}
	}
	return res, nil
}

// UpdateStatus applies a staff status change guarded by the
// transition table, optionally attaching notes.
func (e *Engine) UpdateStatus(ctx context.Context, id uint64, newStatus string, notes *string) (*model.Reservation, error) {
	to, ok := ParseStatus(newStatus)
	if !ok {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", newStatus)}
	}
	res, err := e.store.Transition(ctx, id, to, notes)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &NotFoundError{Resource: "reservation", Key: fmt.Sprintf("%d", id)}
	}
	return res, nil
}

// ListReservations returns a day's reservations for staff, ordered by
// pickup time ascending with unscheduled pickups last.
func (e *Engine) ListReservations(ctx context.Context, locationID uint64, date string) ([]model.Reservation, error) {
	if _, err := e.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}
	date, err := e.resolveDate(date)
	if err != nil {
		return nil, err
	}
	return e.store.ListForDay(ctx, locationID, date)
}

// SetInventory upserts today's total units for a location.  Setting
// it again on the same day overwrites the previous value.
func (e *Engine) SetInventory(ctx context.Context, locationID uint64, totalUnits int) (*InventoryView, error) {
	loc, err := e.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if totalUnits < 0 {
		return nil, &ValidationError{Field: "total_units", Message: "must not be negative"}
	}
	inv, err := e.ledger.SetTotal(ctx, locationID, e.today(), totalUnits)
	if err != nil {
		return nil, err
	}
	return e.buildInventoryView(ctx, loc, inv.Date, inv)
}

// GetInventory returns the ledger view for a location and date.
func (e *Engine) GetInventory(ctx context.Context, locationID uint64, date string) (*InventoryView, error) {
	loc, err := e.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	date, err = e.resolveDate(date)
	if err != nil {
		return nil, err
	}
	inv, err := e.ledger.Get(ctx, locationID, date)
	if err != nil {
		return nil, err
	}
	return e.buildInventoryView(ctx, loc, date, inv)
}

// ReduceInventory lowers today's total (spoilage, miscount), floored
// at zero.  Already admitted reservations stay valid.
func (e *Engine) ReduceInventory(ctx context.Context, locationID uint64, byUnits int) (*InventoryView, error) {
	loc, err := e.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if byUnits <= 0 {
		return nil, &ValidationError{Field: "by_units", Message: "must be positive"}
	}
	inv, err := e.ledger.ReduceTotal(ctx, locationID, e.today(), byUnits)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, &BusinessRuleError{Rule: RuleInventoryNotSet, Message: "daily inventory has not been entered yet"}
	}
	return e.buildInventoryView(ctx, loc, inv.Date, inv)
}

// GetCapacity summarizes a day's capacity for staff.  Dates other
// than today report the degenerate empty view since only today is
// bookable.
func (e *Engine) GetCapacity(ctx context.Context, locationID uint64, date string) (*CapacityView, error) {
	loc, err := e.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	date, err = e.resolveDate(date)
	if err != nil {
		return nil, err
	}
	view := &CapacityView{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		Date:         date,
	}
	if date != e.today() {
		view.Status = Classify(false, false, 0, 0)
		return view, nil
	}
	t, _ := time.Parse(dateLayout, date)
	entry, err := e.schedules.FindActive(ctx, locationID, isoWeekday(t))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		view.Status = Classify(false, false, 0, 0)
		return view, nil
	}
	inv, err := e.ledger.Get(ctx, locationID, date)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		view.Status = Classify(true, false, 0, 0)
		return view, nil
	}
	committed, err := e.ledger.CommittedUnits(ctx, locationID, date)
	if err != nil {
		return nil, err
	}
	available := inv.TotalUnits - committed
	if available < 0 {
		available = 0
	}
	view.TotalCapacity = inv.TotalUnits
	view.CommittedUnits = committed
	view.AvailableUnits = available
	if inv.TotalUnits > 0 {
		view.UtilizationPct = roundPct(float64(committed) * 100.0 / float64(inv.TotalUnits))
	}
	view.Status = Classify(true, true, available, inv.TotalUnits)
	return view, nil
}

// buildInventoryView assembles an InventoryView; inv may be nil when
// staff has not entered a total yet.
func (e *Engine) buildInventoryView(ctx context.Context, loc *model.Location, date string, inv *model.DailyInventory) (*InventoryView, error) {
	view := &InventoryView{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		Date:         date,
	}
	if inv == nil {
		view.Status = Classify(true, false, 0, 0)
		return view, nil
	}
	committed, err := e.ledger.CommittedUnits(ctx, loc.ID, date)
	if err != nil {
		return nil, err
	}
	count, err := e.ledger.CountReservations(ctx, loc.ID, date)
	if err != nil {
		return nil, err
	}
	available := inv.TotalUnits - committed
	if available < 0 {
		available = 0
	}
	view.InventorySet = true
	view.TotalUnits = &inv.TotalUnits
	view.CommittedUnits = committed
	view.AvailableUnits = available
	view.ReservationCount = count
	if inv.TotalUnits > 0 {
		view.UtilizationPct = roundPct(float64(committed) * 100.0 / float64(inv.TotalUnits))
	}
	view.Status = Classify(true, true, available, inv.TotalUnits)
	return view, nil
}

// roundPct rounds to one decimal place.
func roundPct(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// normalizeCode upper-cases and trims a confirmation code so lookups
// are case-insensitive.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
