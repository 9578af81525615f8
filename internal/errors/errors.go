package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HTTPError is the typed error services raise for expected failures. It
// carries the HTTP status the boundary handler should respond with.
type HTTPError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// New creates an HTTPError with an explicit status code.
func New(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// BadRequest covers malformed input and conflicting state ("already exists",
// "already assigned").
func BadRequest(message string) *HTTPError {
	return New(http.StatusBadRequest, message)
}

// Unauthorized covers bad credentials and bad, expired, or missing tokens.
func Unauthorized(message string) *HTTPError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden covers authenticated callers with insufficient role or
// permissions.
func Forbidden(message string) *HTTPError {
	return New(http.StatusForbidden, message)
}

// NotFound covers absent entities.
func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

// Internal covers unexpected failures; the message is shown to the caller, so
// keep it generic.
func Internal(message string) *HTTPError {
	return New(http.StatusInternalServerError, message)
}

// errorBody is the envelope written for every failed request.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPErrorHandler is the single boundary handler: it maps typed service
// errors, echo's own errors, and anything unexpected onto the response
// envelope. In production mode internal detail is replaced with a generic
// message.
func HTTPErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var httpErr *HTTPError
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &httpErr):
			status = httpErr.StatusCode
			message = httpErr.Message
		case errors.As(err, &echoErr):
			status = echoErr.Code
			if m, ok := echoErr.Message.(string); ok {
				message = m
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "Resource not found"
		default:
			if !production {
				message = err.Error()
			}
			c.Logger().Error(err)
		}

		body := errorBody{Success: false, Message: message}
		if writeErr := c.JSON(status, body); writeErr != nil {
			c.Logger().Error(writeErr)
		}
	}
}
