package response

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/campusnotes/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abortWith(c, http.StatusBadRequest, message, nil)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	abortWith(c, http.StatusUnauthorized, "authentication required", nil)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "you do not have permission to do that"
	}
	abortWith(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "not found"
	}
	abortWith(c, http.StatusNotFound, message, nil)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	abortWith(c, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	abortWith(c, http.StatusConflict, message, nil)
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	c.Header("Retry-After", "1")
	abortWith(c, http.StatusTooManyRequests, message, nil)
}

// InternalError sends a 500 error response without leaking the cause.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	abortWith(c, http.StatusInternalServerError, "internal server error", nil)
}

// Error maps an application error to its HTTP status. Unknown errors become
// opaque 500s; the caller is expected to have logged the cause already.
func Error(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		InternalError(c, err)
		return
	}
	switch appErr.Kind {
	case apperr.KindValidation:
		abortWith(c, http.StatusBadRequest, appErr.Message, appErr.Fields)
	case apperr.KindNotFound:
		abortWith(c, http.StatusNotFound, appErr.Message, nil)
	case apperr.KindForbidden:
		abortWith(c, http.StatusForbidden, appErr.Message, nil)
	case apperr.KindConflict:
		abortWith(c, http.StatusConflict, appErr.Message, nil)
	case apperr.KindStore:
		abortWith(c, http.StatusBadGateway, appErr.Message, nil)
	default:
		InternalError(c, err)
	}
}

func abortWith(c *gin.Context, code int, message string, fields []string) {
	body := gin.H{"ok": 0, "code": code, "message": message}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.AbortWithStatusJSON(code, body)
}
