package mail

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"TapaalTracker/internal/storage"
	"TapaalTracker/pkg/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Attachments stores uploaded files for a mail record.
type Attachments interface {
	SaveAll(dir string, files []*multipart.FileHeader) ([]storage.Attachment, error)
	RemoveAll(attachments []storage.Attachment)
}

type MailHandler struct {
	service *MailService
	files   Attachments
	logger  *zap.Logger
}

func NewMailHandler(service *MailService, files Attachments, logger *zap.Logger) *MailHandler {
	return &MailHandler{service: service, files: files, logger: logger.Named("mail")}
}

func (h *MailHandler) List(d Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, limit := response.PageParams(c)
		f := Filter{
			Search:     c.QueryParam("search"),
			Priority:   c.QueryParam("priority"),
			Status:     c.QueryParam("status"),
			Department: c.QueryParam("department"),
			Page:       page,
			Limit:      limit,
		}
		mails, total, err := h.service.List(c.Request().Context(), d, f)
		if err != nil {
			return h.fail(c, d, err)
		}
		return response.Page(c, mails, response.NewPagination(page, limit, total))
	}
}

func (h *MailHandler) Get(d Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := h.service.Get(c.Request().Context(), d, c.Param("id"))
		if err != nil {
			return h.fail(c, d, err)
		}
		return response.Data(c, http.StatusOK, m)
	}
}

// Create accepts JSON or multipart form data; files go in the "attachments" field.
func (h *MailHandler) Create(d Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CreateRequest
		if err := c.Bind(&req); err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid form data")
		}
		req.Priority = strings.ToLower(strings.TrimSpace(req.Priority))
		if err := c.Validate(&req); err != nil {
			return response.Error(c, http.StatusBadRequest, err.Error())
		}

		var attachments []storage.Attachment
		if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
			form, err := c.MultipartForm()
			if err != nil {
				return response.Error(c, http.StatusBadRequest, "Invalid form data")
			}
			if files := form.File["attachments"]; len(files) > 0 {
				attachments, err = h.files.SaveAll(string(d), files)
				if err != nil {
					return h.fail(c, d, err)
				}
			}
		}

		m, err := h.service.Create(c.Request().Context(), d, req, attachments)
		if err != nil {
			h.files.RemoveAll(attachments)
			return h.fail(c, d, err)
		}
		return response.Data(c, http.StatusCreated, m)
	}
}

func (h *MailHandler) Update(d Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req UpdateRequest
		if err := c.Bind(&req); err != nil {
			return response.Error(c, http.StatusBadRequest, "Invalid request")
		}
		if req.Priority != nil {
			p := strings.ToLower(strings.TrimSpace(*req.Priority))
			req.Priority = &p
		}
		if req.Status != nil {
			st := strings.ToLower(strings.TrimSpace(*req.Status))
			req.Status = &st
		}
		if err := c.Validate(&req); err != nil {
			return response.Error(c, http.StatusBadRequest, err.Error())
		}
		m, err := h.service.Update(c.Request().Context(), d, c.Param("id"), req)
		if err != nil {
			return h.fail(c, d, err)
		}
		return response.Data(c, http.StatusOK, m)
	}
}

func (h *MailHandler) Delete(d Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := h.service.Delete(c.Request().Context(), d, c.Param("id"))
		if err != nil {
			return h.fail(c, d, err)
		}
		h.files.RemoveAll(m.Attachments)
		return response.Message(c, http.StatusOK, d.Label()+" mail deleted successfully")
	}
}

func (h *MailHandler) Summary(d Direction) echo.HandlerFunc {
	return func(c echo.Context) error {
		sum, err := h.service.Summary(c.Request().Context(), d)
		if err != nil {
			return h.fail(c, d, err)
		}
		return response.Data(c, http.StatusOK, sum)
	}
}

// Track looks a tracking code up across both directions.
func (h *MailHandler) Track(c echo.Context) error {
	m, err := h.service.Track(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, http.StatusNotFound, "No mail found for tracking code "+strings.ToUpper(c.Param("code")))
		}
		return h.fail(c, "", err)
	}
	return response.Data(c, http.StatusOK, m)
}

func (h *MailHandler) fail(c echo.Context, d Direction, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		if d.Valid() {
			return response.Error(c, http.StatusNotFound, d.Label()+" mail not found")
		}
		return response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, storage.ErrTooManyFiles), errors.Is(err, storage.ErrFileTooLarge), errors.Is(err, storage.ErrFileTypeDenied):
		return response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStatusConflict):
		return response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrIllegalTransition):
		return response.Error(c, http.StatusUnprocessableEntity, err.Error())
	}
	h.logger.Error("mail request failed", zap.String("path", c.Path()), zap.Error(err))
	return response.Error(c, http.StatusInternalServerError, "Internal server error")
}
