// Package handler contains the HTTP handlers: public browsing and
// booking, staff inventory and reservation management, admin location
// administration and authentication.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
