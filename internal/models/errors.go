package models

import (
	"errors"
	"fmt"
)

// Failure categories. Every engine error wraps exactly one of these, so
// callers pick a recovery strategy with errors.Is instead of matching on
// individual reasons.
var (
	ErrValidation    = errors.New("validation failed")
	ErrStateConflict = errors.New("state conflict")
	ErrGateway       = errors.New("payment gateway error")
	ErrOtp           = errors.New("otp rejected")
)

var (
	ErrBookingNotFound   = errors.New("models: booking not found")
	ErrConfigNotFound    = errors.New("models: pricing config not found")
	ErrNoCheckoutSession = errors.New("models: no checkout session")

	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed from current status", ErrStateConflict)
	ErrStaleStatus       = fmt.Errorf("%w: booking status changed concurrently", ErrStateConflict)
	ErrStaleCoupon       = fmt.Errorf("%w: coupon was validated against a different cart total", ErrStateConflict)
	ErrCheckoutInFlight  = fmt.Errorf("%w: another order placement is already in flight", ErrStateConflict)

	ErrEmptyCart      = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrCouponRejected = fmt.Errorf("%w: coupon rejected", ErrValidation)

	ErrPaymentFailed    = fmt.Errorf("%w: payment failed", ErrGateway)
	ErrPaymentCancelled = fmt.Errorf("%w: payment cancelled by user", ErrGateway)
	ErrBadSignature     = fmt.Errorf("%w: payment signature mismatch", ErrGateway)

	ErrOtpMismatch = fmt.Errorf("%w: code does not match", ErrOtp)
	ErrOtpExpired  = fmt.Errorf("%w: code expired", ErrOtp)
	ErrOtpUsed     = fmt.Errorf("%w: code already used", ErrOtp)
)

// ValidationError carries a field-level reason the user can correct and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
