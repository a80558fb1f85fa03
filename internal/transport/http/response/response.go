package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/validation"
)

// ErrorBody is the payload of every non-validation error.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Page is the envelope of paginated list endpoints.
type Page struct {
	Count   int64 `json:"count"`
	Results any   `json:"results"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Paginated(c *gin.Context, count int64, results any) {
	c.JSON(http.StatusOK, Page{Count: count, Results: results})
}

// ValidationFailed writes the field map as the body of a 400.
func ValidationFailed(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusBadRequest, errs)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Detail: message})
}

// Abort writes an error and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Detail: message})
}
