package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"servioBack/internal/models"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.ErrBookingNotFound, http.StatusNotFound},
		{"no session", models.ErrNoCheckoutSession, http.StatusNotFound},
		{"validation field", &models.ValidationError{Field: "days", Reason: "must be at least 1"}, http.StatusBadRequest},
		{"empty cart", models.ErrEmptyCart, http.StatusBadRequest},
		{"coupon rejected", fmt.Errorf("%w: expired", models.ErrCouponRejected), http.StatusBadRequest},
		{"wrong code", models.ErrOtpMismatch, http.StatusUnprocessableEntity},
		{"used code", models.ErrOtpUsed, http.StatusUnprocessableEntity},
		{"invalid transition", models.ErrInvalidTransition, http.StatusConflict},
		{"stale status", models.ErrStaleStatus, http.StatusConflict},
		{"payment in flight", models.ErrCheckoutInFlight, http.StatusConflict},
		{"gateway down", fmt.Errorf("%w: timeout", models.ErrPaymentFailed), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusForError(tc.err); got != tc.want {
				t.Fatalf("statusForError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
