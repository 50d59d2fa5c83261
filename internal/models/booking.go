package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentMethodOnline = "online"
	PaymentMethodCash   = "cash"
)

// Booking is the persistent aggregate created at checkout commit. It is never
// deleted; cancellation is a terminal status. Status constants live in the
// fsm package; payment status is independent of booking status.
type Booking struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`

	Category    string      `json:"category"`
	Service     string      `json:"service"`
	BookingType BookingType `json:"booking_type"`
	Days        int         `json:"days"`

	Price            int `json:"price"`
	PlatformFee      int `json:"platform_fee"`
	TravelCharge     int `json:"travel_charge"`
	CouponDiscount   int `json:"coupon_discount"`
	CoinDiscount     int `json:"coin_discount"`
	WalletAmountUsed int `json:"wallet_amount_used"`
	FinalPrice       int `json:"final_price"`

	WorkerID int64 `json:"worker_id,omitempty"`

	Address    string  `json:"address"`
	AddressLat float64 `json:"address_lat"`
	AddressLon float64 `json:"address_lon"`
	Phone      string  `json:"phone"`

	PaymentID       string `json:"payment_id,omitempty"`
	RefundRequested bool   `json:"refund_requested,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
