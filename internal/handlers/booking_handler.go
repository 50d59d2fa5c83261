package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"servioBack/internal/models"
	"servioBack/internal/services"
)

type BookingHandler struct {
	Service *services.BookingService
}

func NewBookingHandler(s *services.BookingService) *BookingHandler {
	return &BookingHandler{Service: s}
}

func bookingIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(":id"), 10, 64)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingIDParam(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	booking, err := h.Service.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	bookings, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(bookings)
}

func (h *BookingHandler) AssignWorker(w http.ResponseWriter, r *http.Request) {
	id, err := bookingIDParam(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}

	var req struct {
		WorkerID int64 `json:"worker_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.WorkerID == 0 {
		http.Error(w, "Missing worker_id", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.Assign(r.Context(), id, req.WorkerID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) RequestStartCode(w http.ResponseWriter, r *http.Request) {
	id, err := bookingIDParam(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.Service.RequestStartOTP(r.Context(), id); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	// The code goes out over SMS only.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "code_sent"})
}

func (h *BookingHandler) StartBooking(w http.ResponseWriter, r *http.Request) {
	h.verifyAndTransition(w, r, h.Service.Start)
}

func (h *BookingHandler) verifyAndTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64, code string) (models.Booking, error)) {
	id, err := bookingIDParam(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		http.Error(w, "Missing verification code", http.StatusBadRequest)
		return
	}

	booking, err := op(r.Context(), id, req.Code)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) RequestCompletionCode(w http.ResponseWriter, r *http.Request) {
	id, err := bookingIDParam(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.Service.RequestCompletionOTP(r.Context(), id); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "code_sent"})
}

func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.verifyAndTransition(w, r, h.Service.Complete)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingIDParam(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	booking, err := h.Service.Cancel(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(booking)
}
