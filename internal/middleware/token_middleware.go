package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AccessTokenKey is the echo context key the token middleware stores the
// caller's Gmail access token under.
const AccessTokenKey = "access_token"

// RequireToken extracts the access token from the token query parameter
// and rejects requests that omit it.
func RequireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.QueryParam("token")
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Missing access token",
				})
			}

			c.Set(AccessTokenKey, token)
			return next(c)
		}
	}
}
