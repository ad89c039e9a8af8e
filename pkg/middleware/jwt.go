package middleware

import (
	"net/http"
	"strings"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/config"
	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware rejects requests without a valid bearer token and stores the
// parsed claims under the "user" context key.
func JWTMiddleware(cfg *config.AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return response.Error(c, http.StatusUnauthorized, "Missing Token")
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := auth.ParseJWT(cfg.JWTKey, tokenString)
			if err != nil {
				return response.Error(c, http.StatusUnauthorized, "Invalid Token")
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}
