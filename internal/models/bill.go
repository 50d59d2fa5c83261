package models

// Bill is the itemized checkout breakdown. It is computed on demand and never
// persisted; the chosen fields are copied onto the Booking at placement.
type Bill struct {
	Subtotal         int `json:"subtotal"`
	PlatformFee      int `json:"platform_fee"`
	TravelCharge     int `json:"travel_charge"`
	CouponDiscount   int `json:"coupon_discount"`
	CoinsUsed        int `json:"coins_used"`
	CoinDiscount     int `json:"coin_discount"`
	WalletAmountUsed int `json:"wallet_amount_used"`
	FinalPayable     int `json:"final_payable"`
}
