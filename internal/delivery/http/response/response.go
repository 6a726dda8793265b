// Package response maps use-case outcomes onto HTTP status/body pairs.
package response

import (
	"net/http"

	"loaner/internal/domain/entity"
	"loaner/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorsBody is the wire shape for every rejection: a list of
// human-readable messages.
type ErrorsBody struct {
	Errors []string `json:"errors"`
}

// JSON writes a successful payload as-is.
func JSON(c echo.Context, statusCode int, payload any) error {
	return c.JSON(statusCode, payload)
}

// Errors writes a rejection with the given messages.
func Errors(c echo.Context, statusCode int, messages []string) error {
	return c.JSON(statusCode, ErrorsBody{Errors: messages})
}

// BadRequest writes a single-message 400 rejection.
func BadRequest(c echo.Context, message string) error {
	return Errors(c, http.StatusBadRequest, []string{message})
}

// InternalServerError writes an opaque 500 body.
func InternalServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// UsecaseError maps a use-case failure onto a response. Validation, auth,
// not-found, state-conflict and wrapped storage failures all surface as a
// 400 with an errors array; the status differentiation beyond that belongs
// to unexpected transport-level faults (500), not to use-case results.
func UsecaseError(c echo.Context, err error) error {
	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		return Errors(c, http.StatusBadRequest, validationErr.Messages)
	}

	return Errors(c, http.StatusBadRequest, []string{err.Error()})
}
