package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
)

// StaffHandler serves the authenticated operational surface: entering
// the day's inventory, monitoring capacity and working the
// reservation list at the window.
type StaffHandler struct {
	Engine *booking.Engine
}

func NewStaffHandler(engine *booking.Engine) *StaffHandler {
	return &StaffHandler{Engine: engine}
}

type setInventoryReq struct {
	TotalUnits int `json:"total_units"`
}

// SetInventory enters or overwrites today's total for a location.
func (h *StaffHandler) SetInventory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	var req setInventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	view, err := h.Engine.SetInventory(c.Request().Context(), id, req.TotalUnits)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetInventory returns the ledger view for a location; ?date defaults
// to today.
func (h *StaffHandler) GetInventory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	view, err := h.Engine.GetInventory(c.Request().Context(), id, c.QueryParam("date"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type reduceInventoryReq struct {
	ByUnits int    `json:"by_units"`
	Reason  string `json:"reason"`
}

// ReduceInventory lowers today's total after spoilage or a miscount.
// The reason is accepted for the audit trail in access logs but not
// persisted.
func (h *StaffHandler) ReduceInventory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	var req reduceInventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Reason != "" {
		c.Logger().Infof("inventory reduced: location=%d by=%d reason=%q", id, req.ByUnits, req.Reason)
	}
	view, err := h.Engine.ReduceInventory(c.Request().Context(), id, req.ByUnits)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetCapacity returns the capacity summary; ?date defaults to today.
func (h *StaffHandler) GetCapacity(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	view, err := h.Engine.GetCapacity(c.Request().Context(), id, c.QueryParam("date"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListReservations returns a location's reservations for the day,
// ordered by pickup time.
func (h *StaffHandler) ListReservations(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	list, err := h.Engine.ListReservations(c.Request().Context(), id, c.QueryParam("date"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list, "count": len(list)})
}

// GetReservation returns one reservation by ID.
func (h *StaffHandler) GetReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.GetReservation(c.Request().Context(), id)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type updateStatusReq struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// UpdateReservationStatus applies a staff status change (complete,
// no-show, cancel) guarded by the transition table.
func (h *StaffHandler) UpdateReservationStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res, err := h.Engine.UpdateStatus(c.Request().Context(), id, req.Status, req.Notes)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
