package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/handler"
	"github.com/iliyamo/foodtruck-reservation/internal/middleware"
)

// RegisterStaff registers the operational endpoints under /v1/staff.
// Both STAFF and ADMIN roles are accepted.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1/staff",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF", "ADMIN"),
	)
	g.PUT("/locations/:id/inventory", h.SetInventory)
	g.GET("/locations/:id/inventory", h.GetInventory)
	g.POST("/locations/:id/inventory/reduce", h.ReduceInventory)
	g.GET("/locations/:id/capacity", h.GetCapacity)
	g.GET("/locations/:id/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.PATCH("/reservations/:id/status", h.UpdateReservationStatus)
}
