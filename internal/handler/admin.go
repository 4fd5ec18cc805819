package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
)

// AdminHandler serves location and schedule administration.
type AdminHandler struct {
	Engine *booking.Engine
}

func NewAdminHandler(engine *booking.Engine) *AdminHandler {
	return &AdminHandler{Engine: engine}
}

type createLocationReq struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateLocation registers a new truck location.
func (h *AdminHandler) CreateLocation(c echo.Context) error {
	var req createLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	loc, err := h.Engine.CreateLocation(c.Request().Context(), booking.LocationInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, loc)
}

type updateLocationReq struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"is_active"`
}

// UpdateLocation applies a partial update to a location.  Omitted
// fields keep their values; is_active=false retires the location from
// booking without touching its history.
func (h *AdminHandler) UpdateLocation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	var req updateLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	loc, err := h.Engine.UpdateLocation(c.Request().Context(), id, booking.LocationUpdate{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, loc)
}

type upsertScheduleReq struct {
	DayOfWeek   int    `json:"day_of_week"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	IsActive    *bool  `json:"is_active"`
}

// UpsertSchedule creates or overwrites one weekly schedule entry for a
// location.  is_active defaults to true; sending false closes that
// day.
func (h *AdminHandler) UpsertSchedule(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	var req upsertScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	entry, err := h.Engine.CreateOrUpdateSchedule(c.Request().Context(), id, booking.ScheduleInput{
		DayOfWeek:   req.DayOfWeek,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		Active:      active,
	})
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}
