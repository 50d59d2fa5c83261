package models

import "servioBack/internal/booking/geo"

// BookingType selects how a service is scheduled. Half-day lines carry a
// pre-discounted unit price, so the total is always price times days.
type BookingType string

const (
	BookingHalfDay      BookingType = "half_day"
	BookingFullDay      BookingType = "full_day"
	BookingMultipleDays BookingType = "multiple_days"
)

// CartLine is one requested service in the cart. A worker may already be
// bound to the line when the customer picked a specific one.
type CartLine struct {
	Category       string      `json:"category"`
	Service        string      `json:"service"`
	Price          int         `json:"price"`
	Days           int         `json:"days"`
	BookingType    BookingType `json:"booking_type"`
	WorkerID       int64       `json:"worker_id,omitempty"`
	WorkerLocation *geo.Point  `json:"worker_location,omitempty"`
}

// Total returns the line total in rupees.
func (l CartLine) Total() int {
	return l.Price * l.Days
}

// CartSubtotal sums line totals over the whole cart.
func CartSubtotal(lines []CartLine) int {
	subtotal := 0
	for _, l := range lines {
		subtotal += l.Total()
	}
	return subtotal
}
