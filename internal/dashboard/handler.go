package dashboard

import (
	"net/http"

	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	service *DashboardService
}

func NewDashboardHandler(service *DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	return response.Data(c, http.StatusOK, h.service.Stats(c.Request().Context()))
}
