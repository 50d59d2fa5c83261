package handlers

import (
	"errors"
	"net/http"

	"servioBack/internal/models"
)

// statusForError maps engine error categories onto HTTP statuses. Unmapped
// errors are treated as internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoCheckoutSession):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrOtp):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
