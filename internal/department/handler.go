package department

import (
	"errors"
	"net/http"

	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DepartmentHandler struct {
	service *DepartmentService
	logger  *zap.Logger
}

func NewDepartmentHandler(service *DepartmentService, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{service: service, logger: logger.Named("department")}
}

func (h *DepartmentHandler) List(c echo.Context) error {
	departments, err := h.service.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, departments)
}

func (h *DepartmentHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid department ID")
	}
	d, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, d)
}

func (h *DepartmentHandler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	d, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusCreated, d)
}

func (h *DepartmentHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid department ID")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, err.Error())
	}
	d, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Data(c, http.StatusOK, d)
}

func (h *DepartmentHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid department ID")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return response.Message(c, http.StatusOK, "Department deleted successfully")
}

func (h *DepartmentHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNameTaken):
		return response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return response.Error(c, http.StatusNotFound, err.Error())
	}
	h.logger.Error("department request failed", zap.String("path", c.Path()), zap.Error(err))
	return response.Error(c, http.StatusInternalServerError, "Internal server error")
}
