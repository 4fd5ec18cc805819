// Package router registers the HTTP routes: public browsing and
// booking, staff operations, admin administration and authentication.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodtruck-reservation/internal/handler"
	"github.com/iliyamo/foodtruck-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication or
// handler state.  Currently the health check only.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication endpoints.
// Unauthenticated operations live under /v1/auth; /v1/me requires a
// valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("STAFF", "ADMIN"))
	auth.GET("/me", a.Me)
}
