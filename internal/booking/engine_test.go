package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/foodtruck-reservation/internal/model"
)

// fixedClock pins "now" so same-day logic is deterministic.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// testNow is a Monday (ISO day 1) at noon UTC.
var testNow = time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)

const testDate = "2025-06-09"

// memStore is an in-memory implementation of all four engine
// dependencies.  Admit holds the mutex across the capacity read and
// the insert, mirroring the row lock the SQL store takes.
type memStore struct {
	mu           sync.Mutex
	locations    map[uint64]*model.Location
	schedules    map[uint64]map[int]*model.ScheduleEntry
	inventory    map[string]*model.DailyInventory
	reservations map[uint64]*model.Reservation
	nextID       uint64
}

func newMemStore() *memStore {
	return &memStore{
		locations:    make(map[uint64]*model.Location),
		schedules:    make(map[uint64]map[int]*model.ScheduleEntry),
		inventory:    make(map[string]*model.DailyInventory),
		reservations: make(map[uint64]*model.Reservation),
	}
}

func invKey(locationID uint64, date string) string {
	return fmt.Sprintf("%d|%s", locationID, date)
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (m *memStore) ListActive(ctx context.Context) ([]model.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Location
	for _, loc := range m.locations {
		if loc.IsActive {
			out = append(out, *loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) Create(ctx context.Context, loc *model.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.locations {
		if existing.Name == loc.Name {
			return ErrDuplicateName
		}
	}
	m.nextID++
	loc.ID = m.nextID
	cp := *loc
	m.locations[loc.ID] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, loc *model.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locations[loc.ID]; !ok {
		return fmt.Errorf("location %d vanished", loc.ID)
	}
	for id, existing := range m.locations {
		if id != loc.ID && existing.Name == loc.Name {
			return ErrDuplicateName
		}
	}
	cp := *loc
	m.locations[loc.ID] = &cp
	return nil
}

func (m *memStore) FindActive(ctx context.Context, locationID uint64, dayOfWeek int) (*model.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.schedules[locationID][dayOfWeek]
	if !ok || !entry.IsActive {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (m *memStore) ListActiveSchedules(ctx context.Context, locationID uint64) ([]model.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ScheduleEntry
	for _, entry := range m.schedules[locationID] {
		if entry.IsActive {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, entry *model.ScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schedules[entry.LocationID] == nil {
		m.schedules[entry.LocationID] = make(map[int]*model.ScheduleEntry)
	}
	m.nextID++
	entry.ID = m.nextID
	cp := *entry
	m.schedules[entry.LocationID][entry.DayOfWeek] = &cp
	return nil
}

func (m *memStore) SetTotal(ctx context.Context, locationID uint64, date string, totalUnits int) (*model.DailyInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := invKey(locationID, date)
	inv, ok := m.inventory[key]
	if !ok {
		m.nextID++
		inv = &model.DailyInventory{ID: m.nextID, LocationID: locationID, Date: date}
		m.inventory[key] = inv
	}
	inv.TotalUnits = totalUnits
	cp := *inv
	return &cp, nil
}

func (m *memStore) Get(ctx context.Context, locationID uint64, date string) (*model.DailyInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventory[invKey(locationID, date)]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *memStore) CommittedUnits(ctx context.Context, locationID uint64, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committedLocked(locationID, date), nil
}

func (m *memStore) committedLocked(locationID uint64, date string) int {
	sum := 0
	for _, r := range m.reservations {
		if r.LocationID == locationID && r.Date == date && r.Status == string(StatusConfirmed) {
			sum += r.UnitCount
		}
	}
	return sum
}

func (m *memStore) CountReservations(ctx context.Context, locationID uint64, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.reservations {
		if r.LocationID == locationID && r.Date == date {
			count++
		}
	}
	return count, nil
}

func (m *memStore) ReduceTotal(ctx context.Context, locationID uint64, date string, byUnits int) (*model.DailyInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventory[invKey(locationID, date)]
	if !ok {
		return nil, nil
	}
	inv.TotalUnits -= byUnits
	if inv.TotalUnits < 0 {
		inv.TotalUnits = 0
	}
	cp := *inv
	return &cp, nil
}

func (m *memStore) Admit(ctx context.Context, res *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.inventory[invKey(res.LocationID, res.Date)]
	if !ok {
		return ErrInventoryNotSet
	}
	for _, r := range m.reservations {
		if r.ConfirmationCode == res.ConfirmationCode {
			return ErrCodeTaken
		}
	}
	committed := m.committedLocked(res.LocationID, res.Date)
	available := inv.TotalUnits - committed
	if available < 0 {
		available = 0
	}
	if res.UnitCount > available {
		return &CapacityExceededError{Requested: res.UnitCount, Available: available}
	}
	m.nextID++
	res.ID = m.nextID
	cp := *res
	m.reservations[res.ID] = &cp
	return nil
}

func (m *memStore) GetReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) GetByCode(ctx context.Context, code string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ConfirmationCode == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CodeExists(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListForDay(ctx context.Context, locationID uint64, date string) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.LocationID == locationID && r.Date == date {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PickupTime, out[j].PickupTime
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out, nil
}

func (m *memStore) Transition(ctx context.Context, id uint64, to Status, notes *string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	from := Status(r.Status)
	if !from.CanTransitionTo(to) {
		return nil, &InvalidTransitionError{From: from, To: to}
	}
	r.Status = string(to)
	if notes != nil {
		r.Notes = notes
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) CancelByCode(ctx context.Context, code string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ConfirmationCode == code {
			from := Status(r.Status)
			if !from.CanCancel() {
				return nil, &InvalidTransitionError{From: from, To: StatusCancelled}
			}
			r.Status = string(StatusCancelled)
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

// engineSources adapts memStore to the engine interfaces where method
// names collide across interfaces.
type engineSources struct{ *memStore }

func (s engineSources) ListActive(ctx context.Context, locationID uint64) ([]model.ScheduleEntry, error) {
	return s.memStore.ListActiveSchedules(ctx, locationID)
}

type locationSource struct{ *memStore }

type reservationSource struct{ *memStore }

func (s reservationSource) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.memStore.GetReservationByID(ctx, id)
}

// newTestEngine builds an engine over one active location (ID 1) that
// is open Mondays 11:00-20:00, matching testNow.
func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	m := newMemStore()
	eng := NewEngine(locationSource{m}, engineSources{m}, m, reservationSource{m}, fixedClock{testNow})

	loc, err := eng.CreateLocation(context.Background(), LocationInput{Name: "Riverside Plaza", Address: "12 River St"})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	_, err = eng.CreateOrUpdateSchedule(context.Background(), loc.ID, ScheduleInput{
		DayOfWeek: 1, OpeningTime: "11:00", ClosingTime: "20:00", Active: true,
	})
	if err != nil {
		t.Fatalf("CreateOrUpdateSchedule: %v", err)
	}
	return eng, m
}

func mustSetInventory(t *testing.T, eng *Engine, locationID uint64, total int) {
	t.Helper()
	if _, err := eng.SetInventory(context.Background(), locationID, total); err != nil {
		t.Fatalf("SetInventory: %v", err)
	}
}

func TestCreateReservationHappyPath(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	pickup := "13:30"
	out, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID:   1,
		CustomerName: "Anna",
		UnitCount:    3,
		SideCount:    1,
		PickupTime:   &pickup,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	res := out.Reservation
	if res.Status != string(StatusConfirmed) {
		t.Errorf("status = %s, want CONFIRMED", res.Status)
	}
	if res.Date != testDate {
		t.Errorf("date = %s, want %s", res.Date, testDate)
	}
	if !codePattern.MatchString(res.ConfirmationCode) {
		t.Errorf("code %q does not match %s", res.ConfirmationCode, codePattern)
	}
	if !strings.Contains(out.Message, res.ConfirmationCode) {
		t.Errorf("message %q does not contain the code", out.Message)
	}

	view, err := eng.CheckAvailability(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if view.CommittedUnits != 3 || view.AvailableUnits != 17 {
		t.Errorf("committed/available = %d/%d, want 3/17", view.CommittedUnits, view.AvailableUnits)
	}
}

func TestCreateReservationCapacityExceeded(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	if _, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "First", UnitCount: 15,
	}); err != nil {
		t.Fatalf("first reservation: %v", err)
	}

	_, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Second", UnitCount: 10,
	})
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if capErr.Requested != 10 || capErr.Available != 5 {
		t.Errorf("requested/available = %d/%d, want 10/5", capErr.Requested, capErr.Available)
	}
}

func TestCreateReservationInventoryNotSet(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 1,
	})
	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) || ruleErr.Rule != RuleInventoryNotSet {
		t.Fatalf("err = %v, want BusinessRuleError %s", err, RuleInventoryNotSet)
	}
}

func TestCreateReservationClosedDay(t *testing.T) {
	eng, m := newTestEngine(t)
	// Deactivate Monday; inventory being set must not matter.
	m.schedules[1][1].IsActive = false
	mustSetInventory(t, eng, 1, 20)

	_, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 1,
	})
	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) || ruleErr.Rule != RuleLocationClosed {
		t.Fatalf("err = %v, want BusinessRuleError %s", err, RuleLocationClosed)
	}
}

func TestCreateReservationInactiveLocation(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	// Retire the location through the admin path.
	inactive := false
	if _, err := eng.UpdateLocation(context.Background(), 1, LocationUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	_, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 1,
	})
	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) || ruleErr.Rule != RuleLocationInactive {
		t.Fatalf("err = %v, want BusinessRuleError %s", err, RuleLocationInactive)
	}
}

func TestCreateReservationMinOrder(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	_, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 0, SideCount: 0,
	})
	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) || ruleErr.Rule != RuleMinOrderQuantity {
		t.Fatalf("err = %v, want BusinessRuleError %s", err, RuleMinOrderQuantity)
	}

	// Sides alone satisfy the minimum and consume no units.
	out, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 0, SideCount: 2,
	})
	if err != nil {
		t.Fatalf("sides-only reservation: %v", err)
	}
	if out.Reservation.UnitCount != 0 {
		t.Errorf("unit count = %d, want 0", out.Reservation.UnitCount)
	}
}

func TestCreateReservationPickupRules(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	tests := []struct {
		name     string
		pickup   string
		wantRule string
	}{
		{"pickup already passed", "11:30", RulePickupInPast}, // clock is at 12:00
		{"pickup after closing", "20:30", RuleOutsideHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pickup := tt.pickup
			_, err := eng.CreateReservation(context.Background(), ReservationInput{
				LocationID: 1, CustomerName: "Anna", UnitCount: 1, PickupTime: &pickup,
			})
			var ruleErr *BusinessRuleError
			if !errors.As(err, &ruleErr) || ruleErr.Rule != tt.wantRule {
				t.Fatalf("err = %v, want BusinessRuleError %s", err, tt.wantRule)
			}
		})
	}

	t.Run("malformed pickup time", func(t *testing.T) {
		pickup := "9am"
		_, err := eng.CreateReservation(context.Background(), ReservationInput{
			LocationID: 1, CustomerName: "Anna", UnitCount: 1, PickupTime: &pickup,
		})
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("no pickup time is fine", func(t *testing.T) {
		_, err := eng.CreateReservation(context.Background(), ReservationInput{
			LocationID: 1, CustomerName: "Anna", UnitCount: 1,
		})
		if err != nil {
			t.Fatalf("CreateReservation: %v", err)
		}
	})
}

func TestCancelByCode(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	out, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 5,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	code := out.Reservation.ConfirmationCode

	// Lower-cased, padded input must still resolve.
	cancelled, err := eng.CancelByCode(context.Background(), "  "+strings.ToLower(code)+" ")
	if err != nil {
		t.Fatalf("CancelByCode: %v", err)
	}
	if cancelled.Status != string(StatusCancelled) {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	// Cancelled units are released back to the pool.
	view, err := eng.CheckAvailability(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if view.AvailableUnits != 20 {
		t.Errorf("available = %d, want 20 after cancellation", view.AvailableUnits)
	}

	// Cancelling twice is rejected, not idempotent.
	_, err = eng.CancelByCode(context.Background(), code)
	var transErr *InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("second cancel err = %v, want InvalidTransitionError", err)
	}

	if _, err := eng.CancelByCode(context.Background(), "ZZZZ2222"); err == nil {
		t.Error("expected not-found error for unknown code")
	}
}

func TestUpdateStatus(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	out, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 2,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	id := out.Reservation.ID

	notes := "picked up at the window"
	res, err := eng.UpdateStatus(context.Background(), id, "COMPLETED", &notes)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if res.Status != string(StatusCompleted) {
		t.Errorf("status = %s, want COMPLETED", res.Status)
	}
	if res.Notes == nil || *res.Notes != notes {
		t.Errorf("notes not attached: %v", res.Notes)
	}

	// Terminal states are one-way.
	_, err = eng.UpdateStatus(context.Background(), id, "NO_SHOW", nil)
	var transErr *InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}

	_, err = eng.UpdateStatus(context.Background(), id, "PICKED_UP", nil)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("err = %v, want ValidationError for unknown status", err)
	}

	_, err = eng.UpdateStatus(context.Background(), 9999, "COMPLETED", nil)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestCompletedUnitsAreReleased(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 10)

	out, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 4,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := eng.UpdateStatus(context.Background(), out.Reservation.ID, "COMPLETED", nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	// Only CONFIRMED rows count toward the committed sum, so completion
	// releases the units.
	view, err := eng.CheckAvailability(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if view.CommittedUnits != 0 || view.AvailableUnits != 10 {
		t.Errorf("committed/available = %d/%d, want 0/10", view.CommittedUnits, view.AvailableUnits)
	}
}

func TestSetInventoryOverwrites(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 20)

	if _, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 3,
	}); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	view, err := eng.SetInventory(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("SetInventory: %v", err)
	}
	if view.TotalUnits == nil || *view.TotalUnits != 5 {
		t.Fatalf("total = %v, want 5", view.TotalUnits)
	}
	if view.CommittedUnits != 3 || view.AvailableUnits != 2 {
		t.Errorf("committed/available = %d/%d, want 3/2", view.CommittedUnits, view.AvailableUnits)
	}

	if _, err := eng.SetInventory(context.Background(), 1, -1); err == nil {
		t.Error("expected validation error for negative total")
	}
}

func TestReduceInventory(t *testing.T) {
	eng, _ := newTestEngine(t)

	// Nothing entered yet.
	_, err := eng.ReduceInventory(context.Background(), 1, 5)
	var ruleErr *BusinessRuleError
	if !errors.As(err, &ruleErr) || ruleErr.Rule != RuleInventoryNotSet {
		t.Fatalf("err = %v, want BusinessRuleError %s", err, RuleInventoryNotSet)
	}

	mustSetInventory(t, eng, 1, 10)
	view, err := eng.ReduceInventory(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("ReduceInventory: %v", err)
	}
	if view.TotalUnits == nil || *view.TotalUnits != 6 {
		t.Fatalf("total = %v, want 6", view.TotalUnits)
	}

	// Reductions floor at zero rather than going negative.
	view, err = eng.ReduceInventory(context.Background(), 1, 100)
	if err != nil {
		t.Fatalf("ReduceInventory: %v", err)
	}
	if view.TotalUnits == nil || *view.TotalUnits != 0 {
		t.Fatalf("total = %v, want 0", view.TotalUnits)
	}

	if _, err := eng.ReduceInventory(context.Background(), 1, 0); err == nil {
		t.Error("expected validation error for non-positive reduction")
	}
}

// A reduction below the already committed sum must not surface a
// negative available count on later admissions.
func TestAdmitAfterReductionClampsAvailable(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 10)

	if _, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 8,
	}); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	// Total drops to 5 while 8 units are committed.
	if _, err := eng.ReduceInventory(context.Background(), 1, 5); err != nil {
		t.Fatalf("ReduceInventory: %v", err)
	}

	_, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Ben", UnitCount: 1,
	})
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if capErr.Available != 0 {
		t.Errorf("available = %d, want 0", capErr.Available)
	}

	view, err := eng.GetInventory(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetInventory: %v", err)
	}
	if view.AvailableUnits != 0 {
		t.Errorf("view available = %d, want 0", view.AvailableUnits)
	}
}

func TestCheckAvailabilityBuckets(t *testing.T) {
	eng, _ := newTestEngine(t)

	view, err := eng.CheckAvailability(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if view.Status != AvailabilityNotSet || !view.IsOpen {
		t.Errorf("status/open = %s/%v, want NOT_SET/true", view.Status, view.IsOpen)
	}

	mustSetInventory(t, eng, 1, 100)
	for i := 0; i < 7; i++ {
		if _, err := eng.CreateReservation(context.Background(), ReservationInput{
			LocationID: 1, CustomerName: "Bulk", UnitCount: 10,
		}); err != nil {
			t.Fatalf("CreateReservation %d: %v", i, err)
		}
	}
	view, err = eng.CheckAvailability(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	// 30 of 100 left is exactly the threshold, which is LIMITED.
	if view.Status != AvailabilityLimited {
		t.Errorf("status = %s, want LIMITED at 30%%", view.Status)
	}

	// A Sunday: no schedule entry, so closed regardless of ledger.
	sunday, err := eng.CheckAvailability(context.Background(), 1, "2025-06-08")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if sunday.Status != AvailabilityClosed || sunday.IsOpen {
		t.Errorf("sunday status/open = %s/%v, want CLOSED/false", sunday.Status, sunday.IsOpen)
	}

	// Next Monday is open but never exposes inventory: booking is
	// same-day only.
	next, err := eng.CheckAvailability(context.Background(), 1, "2025-06-16")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !next.IsOpen || next.InventorySet || next.Status != AvailabilityNotSet {
		t.Errorf("next monday open/set/status = %v/%v/%s, want true/false/NOT_SET",
			next.IsOpen, next.InventorySet, next.Status)
	}

	if _, err := eng.CheckAvailability(context.Background(), 1, "06/16/2025"); err == nil {
		t.Error("expected validation error for malformed date")
	}
}

// Entering a total of zero is a deliberate "nothing today" and must
// read as SOLD_OUT, not as if staff never entered inventory.
func TestZeroTotalIsSoldOut(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 0)

	view, err := eng.CheckAvailability(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !view.InventorySet {
		t.Error("inventory_set = false, want true")
	}
	if view.Status != AvailabilitySoldOut {
		t.Errorf("status = %s, want SOLD_OUT", view.Status)
	}

	_, err = eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 1,
	})
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
}

func TestConcurrentAdmissionsNeverOversell(t *testing.T) {
	eng, m := newTestEngine(t)
	mustSetInventory(t, eng, 1, 50)

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := eng.CreateReservation(context.Background(), ReservationInput{
				LocationID:   1,
				CustomerName: fmt.Sprintf("customer-%d", i),
				UnitCount:    1 + i%3,
			})
			if err != nil {
				var capErr *CapacityExceededError
				if !errors.As(err, &capErr) {
					t.Errorf("worker %d: unexpected error %v", i, err)
				}
			}
		}(i)
	}
	wg.Wait()

	committed, err := m.CommittedUnits(context.Background(), 1, testDate)
	if err != nil {
		t.Fatalf("CommittedUnits: %v", err)
	}
	if committed > 50 {
		t.Errorf("committed %d units against a total of 50", committed)
	}
}

func TestListReservationsOrdering(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 50)

	times := []*string{ptr("18:00"), nil, ptr("13:00"), ptr("15:30")}
	for i, pt := range times {
		if _, err := eng.CreateReservation(context.Background(), ReservationInput{
			LocationID: 1, CustomerName: fmt.Sprintf("c%d", i), UnitCount: 1, PickupTime: pt,
		}); err != nil {
			t.Fatalf("CreateReservation %d: %v", i, err)
		}
	}

	list, err := eng.ListReservations(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("got %d reservations, want 4", len(list))
	}
	var got []string
	for _, r := range list {
		if r.PickupTime == nil {
			got = append(got, "-")
		} else {
			got = append(got, *r.PickupTime)
		}
	}
	want := []string{"13:00", "15:30", "18:00", "-"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestGetReservationByCodeNormalizes(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 10)

	out, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	code := out.Reservation.ConfirmationCode

	res, err := eng.GetReservationByCode(context.Background(), " "+strings.ToLower(code))
	if err != nil {
		t.Fatalf("GetReservationByCode: %v", err)
	}
	if res.ID != out.Reservation.ID {
		t.Errorf("got reservation %d, want %d", res.ID, out.Reservation.ID)
	}

	var nfErr *NotFoundError
	if _, err := eng.GetReservationByCode(context.Background(), "AAAA2222"); !errors.As(err, &nfErr) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
	var valErr *ValidationError
	if _, err := eng.GetReservationByCode(context.Background(), "  "); !errors.As(err, &valErr) {
		t.Errorf("err = %v, want ValidationError for blank code", err)
	}
}

func TestScheduleValidation(t *testing.T) {
	eng, _ := newTestEngine(t)

	cases := []ScheduleInput{
		{DayOfWeek: 0, OpeningTime: "11:00", ClosingTime: "20:00", Active: true},
		{DayOfWeek: 8, OpeningTime: "11:00", ClosingTime: "20:00", Active: true},
		{DayOfWeek: 2, OpeningTime: "11am", ClosingTime: "20:00", Active: true},
		{DayOfWeek: 2, OpeningTime: "11:00", ClosingTime: "25:00", Active: true},
		{DayOfWeek: 2, OpeningTime: "20:00", ClosingTime: "11:00", Active: true},
		{DayOfWeek: 2, OpeningTime: "11:00", ClosingTime: "11:00", Active: true},
	}
	for i, in := range cases {
		var valErr *ValidationError
		if _, err := eng.CreateOrUpdateSchedule(context.Background(), 1, in); !errors.As(err, &valErr) {
			t.Errorf("case %d: err = %v, want ValidationError", i, err)
		}
	}

	// Upsert overwrites the existing Monday entry.
	entry, err := eng.CreateOrUpdateSchedule(context.Background(), 1, ScheduleInput{
		DayOfWeek: 1, OpeningTime: "10:00", ClosingTime: "18:00", Active: true,
	})
	if err != nil {
		t.Fatalf("CreateOrUpdateSchedule: %v", err)
	}
	if entry.OpeningTime != "10:00" {
		t.Errorf("opening = %s, want 10:00", entry.OpeningTime)
	}
	sched, err := eng.GetSchedule(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if len(sched) != 1 || sched[0].OpeningTime != "10:00" {
		t.Errorf("schedule after upsert = %+v", sched)
	}
}

func TestCreateLocationConflicts(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.CreateLocation(context.Background(), LocationInput{Name: "Riverside Plaza", Address: "elsewhere"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	var valErr *ValidationError
	if _, err := eng.CreateLocation(context.Background(), LocationInput{Name: " ", Address: "x"}); !errors.As(err, &valErr) {
		t.Errorf("err = %v, want ValidationError for blank name", err)
	}
}

func TestUpdateLocation(t *testing.T) {
	eng, _ := newTestEngine(t)

	name := "Riverside Plaza West"
	addr := "14 River St"
	loc, err := eng.UpdateLocation(context.Background(), 1, LocationUpdate{Name: &name, Address: &addr})
	if err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	if loc.Name != name || loc.Address != addr {
		t.Errorf("updated location = %q @ %q", loc.Name, loc.Address)
	}
	if !loc.IsActive {
		t.Error("untouched active flag was changed")
	}

	// Renaming onto another location's name conflicts.
	if _, err := eng.CreateLocation(context.Background(), LocationInput{Name: "Harbor Market", Address: "3 Pier Rd"}); err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	taken := "Harbor Market"
	_, err = eng.UpdateLocation(context.Background(), 1, LocationUpdate{Name: &taken})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}

	blank := "  "
	var valErr *ValidationError
	if _, err := eng.UpdateLocation(context.Background(), 1, LocationUpdate{Name: &blank}); !errors.As(err, &valErr) {
		t.Errorf("err = %v, want ValidationError for blank name", err)
	}

	var nfErr *NotFoundError
	if _, err := eng.UpdateLocation(context.Background(), 9999, LocationUpdate{}); !errors.As(err, &nfErr) {
		t.Errorf("err = %v, want NotFoundError", err)
	}

	// Deactivation removes the location from the active listings.
	inactive := false
	if _, err := eng.UpdateLocation(context.Background(), 1, LocationUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	active, err := eng.ListActiveLocations(context.Background())
	if err != nil {
		t.Fatalf("ListActiveLocations: %v", err)
	}
	for _, l := range active {
		if l.ID == 1 {
			t.Error("deactivated location still listed as active")
		}
	}
}

func TestTodayLocationsAndWeeklySchedule(t *testing.T) {
	eng, _ := newTestEngine(t)

	second, err := eng.CreateLocation(context.Background(), LocationInput{Name: "Harbor Market", Address: "3 Pier Rd"})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	// Harbor Market only opens Tuesdays.
	if _, err := eng.CreateOrUpdateSchedule(context.Background(), second.ID, ScheduleInput{
		DayOfWeek: 2, OpeningTime: "09:00", ClosingTime: "17:00", Active: true,
	}); err != nil {
		t.Fatalf("CreateOrUpdateSchedule: %v", err)
	}

	today, err := eng.TodayLocations(context.Background())
	if err != nil {
		t.Fatalf("TodayLocations: %v", err)
	}
	if len(today) != 1 || today[0].ID != 1 {
		t.Fatalf("today = %+v, want only location 1 on a Monday", today)
	}

	week, err := eng.WeeklySchedule(context.Background())
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	if len(week) != 2 {
		t.Fatalf("got %d scheduled days, want 2", len(week))
	}
	if week[0].DayOfWeek != 1 || week[1].DayOfWeek != 2 {
		t.Errorf("days = %d,%d, want 1,2", week[0].DayOfWeek, week[1].DayOfWeek)
	}
	if len(week[1].Locations) != 1 || week[1].Locations[0].LocationID != second.ID {
		t.Errorf("tuesday entries = %+v", week[1].Locations)
	}
}

func TestGetCapacity(t *testing.T) {
	eng, _ := newTestEngine(t)
	mustSetInventory(t, eng, 1, 40)
	if _, err := eng.CreateReservation(context.Background(), ReservationInput{
		LocationID: 1, CustomerName: "Anna", UnitCount: 10,
	}); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	view, err := eng.GetCapacity(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetCapacity: %v", err)
	}
	if view.TotalCapacity != 40 || view.CommittedUnits != 10 || view.AvailableUnits != 30 {
		t.Errorf("capacity = %+v", view)
	}
	if view.UtilizationPct != 25.0 {
		t.Errorf("utilization = %v, want 25.0", view.UtilizationPct)
	}

	// Other dates are not bookable and report the degenerate view.
	other, err := eng.GetCapacity(context.Background(), 1, "2025-06-16")
	if err != nil {
		t.Fatalf("GetCapacity: %v", err)
	}
	if other.TotalCapacity != 0 || other.Status != AvailabilityClosed {
		t.Errorf("other-day capacity = %+v", other)
	}
}

func ptr(s string) *string { return &s }
