package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/handler"
	"github.com/iliyamo/foodtruck-reservation/internal/middleware"
)

// RegisterAdmin registers location administration under /v1/admin,
// restricted to the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/locations", h.CreateLocation)
	g.PUT("/locations/:id", h.UpdateLocation)
	g.PUT("/locations/:id/schedule", h.UpsertSchedule)
}
