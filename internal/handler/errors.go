package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/booking"
)

// respondBookingError maps the booking package's typed errors onto
// HTTP responses.  Every expected outcome gets a precise status and a
// machine-readable error field; anything unexpected is a 500 with no
// internals leaked.
func respondBookingError(c echo.Context, err error) error {
	var (
		notFound   *booking.NotFoundError
		validation *booking.ValidationError
		rule       *booking.BusinessRuleError
		capacity   *booking.CapacityExceededError
		transition *booking.InvalidTransitionError
		conflict   *booking.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "not_found",
			"message": notFound.Error(),
		})
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "validation_failed",
			"field":   validation.Field,
			"message": validation.Message,
		})
	case errors.As(err, &rule):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":   rule.Rule,
			"message": rule.Message,
		})
	case errors.As(err, &capacity):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "CAPACITY_EXCEEDED",
			"message":   capacity.Error(),
			"requested": capacity.Requested,
			"available": capacity.Available,
		})
	case errors.As(err, &transition):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "INVALID_STATUS_TRANSITION",
			"message": transition.Error(),
			"from":    string(transition.From),
			"to":      string(transition.To),
		})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "already_exists",
			"message": conflict.Error(),
		})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
