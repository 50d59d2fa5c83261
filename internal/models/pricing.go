package models

// FeeConfig is the platform fee configuration, loaded once per checkout
// session and read-only afterwards. When IsActive is false both the platform
// fee and the travel charge are zero regardless of the other fields.
type FeeConfig struct {
	IsActive          bool `json:"is_active"`
	PlatformFee       int  `json:"platform_fee"`
	TravelChargePerKm int  `json:"travel_charge_per_km"`
}

// CoinConfig controls loyalty coin redemption.
type CoinConfig struct {
	// CoinToRupeeRate is the rupee value of a single coin.
	CoinToRupeeRate float64 `json:"coin_to_rupee_rate"`
	// MaxUsagePercentage caps coin redemption as a percentage (0-100) of the
	// post-coupon price.
	MaxUsagePercentage int `json:"max_usage_percentage"`
}

// WalletState is a read-only snapshot of the customer's balances. The ledger
// mutating them lives server-side; this engine only computes how much of each
// may be applied.
type WalletState struct {
	Balance     int `json:"balance"`
	CoinBalance int `json:"coin_balance"`
}
