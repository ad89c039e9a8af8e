package notification

import (
	"net/http"

	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

func NewNotificationHandler(service *NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, logger: logger.Named("notification")}
}

// List serves GET /api/reminders?kind=overdue|received&page=&limit=.
func (h *NotificationHandler) List(c echo.Context) error {
	kind := c.QueryParam("kind")
	if kind != "" && kind != KindOverdue && kind != KindReceived {
		return response.Error(c, http.StatusBadRequest, "kind must be overdue or received")
	}
	page, limit := response.PageParams(c)
	list, total, err := h.service.List(c.Request().Context(), kind, page, limit)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		return response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
	return response.Page(c, list, response.NewPagination(page, limit, total))
}
