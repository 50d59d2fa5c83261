package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"servioBack/internal/booking/geo"
	"servioBack/internal/booking/pay"
	"servioBack/internal/models"
	"servioBack/internal/services"
)

type CheckoutHandler struct {
	Service *services.CheckoutService
}

func NewCheckoutHandler(s *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Service: s}
}

func userIDFromContext(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value("user_id").(int64)
	return id, ok && id != 0
}

func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Lines   []models.CartLine `json:"lines"`
		Address string            `json:"address"`
		Lat     float64           `json:"lat"`
		Lon     float64           `json:"lon"`
		Phone   string            `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)

	err := h.Service.StartCheckout(r.Context(), userID, req.Lines, req.Address, geo.Point{Lat: req.Lat, Lon: req.Lon}, req.Phone)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	bill, err := h.Service.Quote(r.Context(), userID, false, false)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(bill)
}

func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
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
		http.Error(w, "Missing coupon code", http.StatusBadRequest)
		return
	}

	coupon, err := h.Service.ApplyCoupon(r.Context(), userID, req.Code)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(coupon)
}

func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	useCoins := r.URL.Query().Get("use_coins") == "true"
	useWallet := r.URL.Query().Get("use_wallet") == "true"

	bill, err := h.Service.Quote(r.Context(), userID, useCoins, useWallet)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(bill)
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		PaymentMethod string `json:"payment_method"`
		UseCoins      bool   `json:"use_coins"`
		UseWallet     bool   `json:"use_wallet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))

	res, err := h.Service.PlaceOrder(r.Context(), userID, req.PaymentMethod, req.UseCoins, req.UseWallet)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Token     string `json:"token"`
		Outcome   string `json:"outcome"`
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Signature string `json:"signature"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Missing attempt token", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.ConfirmPayment(r.Context(), userID, req.Token, pay.CheckoutResult{
		Outcome:   pay.Outcome(req.Outcome),
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Reason:    req.Reason,
	})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(booking)
}

func (h *CheckoutHandler) AbandonPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	h.Service.AbandonPayment(userID, req.Token)
	w.WriteHeader(http.StatusNoContent)
}
