package auth

import (
	"errors"
	"net/http"
	"strconv"

	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service *UserService
	logger  *zap.Logger
}

func NewAuthHandler(service *UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger.Named("auth")}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid Request")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}

	user, err := h.service.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&cred); err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}

	token, user, err := h.service.AuthenticateUser(c.Request().Context(), cred)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	claims, ok := c.Get("user").(*JWTClaims)
	if !ok || claims == nil {
		return response.Error(c, http.StatusUnauthorized, "Invalid or missing token")
	}
	user, err := h.service.GetUserByEmail(c.Request().Context(), claims.Email)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	page, limit := response.PageParams(c)
	f := UserFilter{
		Role:       c.QueryParam("role"),
		Department: c.QueryParam("department"),
		Page:       page,
		Limit:      limit,
	}
	if v := c.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "active must be true or false")
		}
		f.Active = &active
	}

	users, total, err := h.service.ListUsers(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Page(c, users, response.NewPagination(page, limit, total))
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, user)
}

func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user ID")
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	user, err := h.service.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, user)
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user ID")
	}
	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return response.Message(c, http.StatusOK, "User deleted successfully")
}

func (h *AuthHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInactive):
		return response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return response.Error(c, http.StatusNotFound, err.Error())
	}
	h.logger.Error("auth request failed", zap.String("path", c.Path()), zap.Error(err))
	return response.Error(c, http.StatusInternalServerError, "Internal server error")
}
