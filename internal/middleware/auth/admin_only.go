package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"ecom/internal/tokens"
)

const deniedMessage = "Access denied. Admins only."

type Guard struct {
	JWTSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{JWTSecret: secret}
}

// RequireAdmin rejects the request with a fixed 403 unless the caller
// presents a valid bearer token whose isAdmin claim is set. It has no side
// effects beyond stamping the user onto the request context.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			return echo.NewHTTPError(http.StatusForbidden, deniedMessage)
		}

		claims, err := tokens.AccessClaimsFromToken(tokenStr, g.JWTSecret)
		if err != nil || claims == nil || !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, deniedMessage)
		}

		c.Set("user_id", claims.Subject)
		c.Set("is_admin", claims.IsAdmin)

		return next(c)
	}
}
