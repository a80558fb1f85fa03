package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/app"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/transport/http/response"
	"yamdb-api/internal/validation"
)

const maxPageLimit = 100

// writeError maps service errors onto status codes. Unexpected errors are
// logged and hidden behind a generic 500.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationFailed(c, fieldErrs)
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Not found.")
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, app.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, app.ErrDelivery):
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "Confirmation email could not be sent.")
	default:
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}

// bindJSON decodes the request body into dst and writes a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ValidationFailed(c, validation.Errors{
			"non_field_errors": {"Invalid request payload."},
		})
		return false
	}
	return true
}

// pageFromQuery reads limit/offset. Missing or malformed values mean no
// paging; limit is capped at maxPageLimit.
func pageFromQuery(c *gin.Context) repository.Page {
	var page repository.Page
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		page.Limit = min(n, maxPageLimit)
	}
	if n, err := strconv.Atoi(c.Query("offset")); err == nil && n > 0 {
		page.Offset = n
	}
	return page
}
