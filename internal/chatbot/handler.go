package chatbot

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatHandler struct {
	service *ChatService
}

func NewChatHandler(service *ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message required"})
	}
	return c.JSON(http.StatusOK, h.service.Reply(c.Request().Context(), strings.TrimSpace(req.Message)))
}
