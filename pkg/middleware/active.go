package middleware

import (
	"context"
	"net/http"

	"TapaalTracker/internal/auth"
	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
}

// ActiveUserMiddleware re-reads the caller's account on writes. Deactivated or
// deleted accounts are rejected, and the stored role replaces the one in the
// token. It must run after JWTMiddleware and before CasbinMiddleware.
func ActiveUserMiddleware(users UserLookup, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}
			claims, ok := c.Get("user").(*auth.JWTClaims)
			if !ok || claims == nil {
				return response.Error(c, http.StatusUnauthorized, "Invalid Token")
			}
			id, err := primitive.ObjectIDFromHex(claims.Subject)
			if err != nil {
				return response.Error(c, http.StatusUnauthorized, "Invalid Token")
			}
			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				logger.Error("account lookup failed", zap.String("user", claims.Subject), zap.Error(err))
				return response.Error(c, http.StatusInternalServerError, "Internal server error")
			}
			if user == nil || !user.Active {
				return response.Error(c, http.StatusUnauthorized, auth.ErrInactive.Error())
			}
			if user.Role != claims.Role {
				fresh := *claims
				fresh.Role = user.Role
				c.Set("user", &fresh)
			}
			return next(c)
		}
	}
}
