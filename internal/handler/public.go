package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
	"github.com/iliyamo/foodtruck-reservation/internal/queue"
	queue_publisher "github.com/iliyamo/foodtruck-reservation/internal/service"
)

// PublicHandler serves the unauthenticated customer surface: browsing
// locations and schedules, checking availability and booking with a
// confirmation code.  Customers never log in; the code is the only
// credential a reservation has.
type PublicHandler struct {
	Engine        *booking.Engine
	PublishEvents bool
}

func NewPublicHandler(engine *booking.Engine, publishEvents bool) *PublicHandler {
	return &PublicHandler{Engine: engine, PublishEvents: publishEvents}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ListLocations returns all active locations.
func (h *PublicHandler) ListLocations(c echo.Context) error {
	locs, err := h.Engine.ListActiveLocations(c.Request().Context())
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locs})
}

// ListTodayLocations returns the locations open today.
func (h *PublicHandler) ListTodayLocations(c echo.Context) error {
	locs, err := h.Engine.TodayLocations(c.Request().Context())
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locs})
}

// GetLocation returns one location.
func (h *PublicHandler) GetLocation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	loc, err := h.Engine.GetLocation(c.Request().Context(), id)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, loc)
}

// GetLocationSchedule returns a location's weekly opening hours.
func (h *PublicHandler) GetLocationSchedule(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	entries, err := h.Engine.GetSchedule(c.Request().Context(), id)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"location_id": id, "schedule": entries})
}

// GetWeeklySchedule returns, per weekday, the locations open that day.
func (h *PublicHandler) GetWeeklySchedule(c echo.Context) error {
	week, err := h.Engine.WeeklySchedule(c.Request().Context())
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"week": week})
}

// GetAvailability returns the availability view for a location.  The
// optional ?date=YYYY-MM-DD query defaults to today.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	view, err := h.Engine.CheckAvailability(c.Request().Context(), id, c.QueryParam("date"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type createReservationReq struct {
	LocationID    uint64  `json:"location_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
	UnitCount     int     `json:"unit_count"`
	SideCount     int     `json:"side_count"`
	PickupTime    *string `json:"pickup_time"`
	Notes         *string `json:"notes"`
}

// CreateReservation books units for today.  On success the
// confirmation event is published best-effort in the background; the
// reservation is committed either way.
func (h *PublicHandler) CreateReservation(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	out, err := h.Engine.CreateReservation(c.Request().Context(), booking.ReservationInput{
		LocationID:    req.LocationID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		UnitCount:     req.UnitCount,
		SideCount:     req.SideCount,
		PickupTime:    req.PickupTime,
		Notes:         req.Notes,
	})
	if err != nil {
		return respondBookingError(c, err)
	}

	if h.PublishEvents {
		res := out.Reservation
		locationName := ""
		if loc, err := h.Engine.GetLocation(c.Request().Context(), res.LocationID); err == nil {
			locationName = loc.Name
		}
		ev := queue.ReservationConfirmedEvent{
			ReservationID:    res.ID,
			ConfirmationCode: res.ConfirmationCode,
			LocationID:       res.LocationID,
			LocationName:     locationName,
			CustomerName:     res.CustomerName,
			UnitCount:        res.UnitCount,
			SideCount:        res.SideCount,
			Date:             res.Date,
			PickupTime:       res.PickupTime,
			ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishReservationConfirmed(ctx, ev)
		}()
	}
	return c.JSON(http.StatusCreated, out)
}

// GetReservationByCode looks a reservation up by confirmation code.
func (h *PublicHandler) GetReservationByCode(c echo.Context) error {
	res, err := h.Engine.GetReservationByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CancelByCode cancels a reservation via its confirmation code.
func (h *PublicHandler) CancelByCode(c echo.Context) error {
	res, err := h.Engine.CancelByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation": res,
		"message":     "Reservation cancelled",
	})
}
