package handlers

import (
	"encoding/json"
	"net/http"

	"servioBack/internal/booking/geo"
)

type LocationHandler struct {
	Locator *geo.WorkerLocator
}

func NewLocationHandler(locator *geo.WorkerLocator) *LocationHandler {
	return &LocationHandler{Locator: locator}
}

func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	workerID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	p := geo.Point{Lat: req.Lat, Lon: req.Lon}
	if !p.Valid() {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}

	if err := h.Locator.Update(r.Context(), workerID, p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
