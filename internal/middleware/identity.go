package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// identity returns a stable identifier for rate-limit and cache keys:
// the authenticated user's ID when present, "guest" otherwise.  The
// "user_id" value comes from JWTAuth and may be a string or a JSON
// number depending on how the claim was decoded.
func identity(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	return "guest"
}
