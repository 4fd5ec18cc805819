package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/handler"
)

// RegisterPublic registers the unauthenticated customer endpoints.
// The read endpoints take the response-cache middleware; reservation
// creation takes the rate limiter so a script cannot drain a day's
// inventory.  Either middleware may be a pass-through when Redis is
// unavailable.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache, ratelimit echo.MiddlewareFunc) {
	e.GET("/v1/locations", p.ListLocations, cache)
	e.GET("/v1/locations/today", p.ListTodayLocations, cache)
	e.GET("/v1/locations/:id", p.GetLocation, cache)
	e.GET("/v1/locations/:id/schedule", p.GetLocationSchedule, cache)
	e.GET("/v1/schedule", p.GetWeeklySchedule, cache)
	e.GET("/v1/locations/:id/availability", p.GetAvailability, cache)

	e.POST("/v1/reservations", p.CreateReservation, ratelimit)
	e.GET("/v1/reservations/code/:code", p.GetReservationByCode)
	e.DELETE("/v1/reservations/code/:code", p.CancelByCode)
}
