package models

// AppliedCoupon is the result of validating a coupon code against a cart.
// OrderAmount records the subtotal the coupon was validated against; once
// applied the coupon is immutable, and a changed subtotal forces
// re-validation.
type AppliedCoupon struct {
	CouponID       string `json:"coupon_id"`
	Code           string `json:"code"`
	DiscountAmount int    `json:"discount_amount"`
	OrderAmount    int    `json:"order_amount"`
}
