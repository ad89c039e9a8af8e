// Package response holds the JSON envelopes shared by the REST handlers.
package response

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination describes one page of a skip/limit listing.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// PageParams reads page and limit from the query string, clamping bad values to defaults.
func PageParams(c echo.Context) (page, limit int64) {
	page, limit = DefaultPage, DefaultLimit
	if v, err := strconv.ParseInt(c.QueryParam("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		limit = min(v, MaxLimit)
	}
	return page, limit
}

// Skip converts a 1-based page into a document offset.
func Skip(page, limit int64) int64 {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

func Data(c echo.Context, status int, data any) error {
	return c.JSON(status, map[string]any{"success": true, "data": data})
}

func Page(c echo.Context, data any, p Pagination) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": data, "pagination": p})
}

func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": true, "message": msg})
}

func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": false, "error": msg})
}
