package middleware

import (
	"fmt"
	"net/http"
	"os"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/config"
	"TapaalTracker/pkg/response"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/casbin/casbin/v2/util"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)`

// NewEnforcer loads the role policy file named by the auth config.
func NewEnforcer(cfg *config.AuthConfig, logger *zap.Logger) (*casbin.Enforcer, error) {
	if _, err := os.Stat(cfg.PolicyPath); err != nil {
		return nil, fmt.Errorf("rbac policy %s: %w", cfg.PolicyPath, err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	enf.AddFunction("keyMatch", util.KeyMatchFunc)
	enf.AddFunction("regexMatch", util.RegexMatchFunc)

	policies, _ := enf.GetPolicy()
	logger.Info("casbin enforcer ready", zap.String("policy", cfg.PolicyPath), zap.Int("rules", len(policies)))
	return enf, nil
}

// CasbinMiddleware authorises the route path and method against the caller's role.
// It must run after JWTMiddleware.
func CasbinMiddleware(enf *casbin.Enforcer, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.JWTClaims)
			if !ok || claims == nil {
				return response.Error(c, http.StatusForbidden, "Unauthorized: missing user claims")
			}
			obj := c.Path()
			act := c.Request().Method
			allowed, err := enf.Enforce(claims.Role, obj, act)
			if err != nil {
				logger.Error("casbin enforce failed", zap.String("role", claims.Role), zap.String("obj", obj), zap.Error(err))
				return response.Error(c, http.StatusInternalServerError, "RBAC system error")
			}
			if !allowed {
				logger.Debug("casbin denied", zap.String("role", claims.Role), zap.String("obj", obj), zap.String("act", act))
				return response.Error(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			}
			return next(c)
		}
	}
}
