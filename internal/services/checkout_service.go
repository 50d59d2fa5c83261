package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"servioBack/internal/booking/fsm"
	"servioBack/internal/booking/geo"
	"servioBack/internal/booking/lifecycle"
	"servioBack/internal/booking/pay"
	"servioBack/internal/booking/pricing"
	"servioBack/internal/models"
)

// CouponValidator is the slice of the coupon service the checkout consumes.
type CouponValidator interface {
	Validate(ctx context.Context, code string, orderAmount int) (models.AppliedCoupon, error)
}

// BalanceFetcher reads wallet balances from the external ledger.
type BalanceFetcher interface {
	Balance(ctx context.Context, userID int64) (models.WalletState, error)
}

// ConfigSource supplies the fee/coin configuration snapshot.
type ConfigSource interface {
	Snapshot(ctx context.Context) (models.FeeConfig, models.CoinConfig, error)
}

// WorkerLocatorSource resolves a worker's last known position.
type WorkerLocatorSource interface {
	Locate(ctx context.Context, workerID int64) (geo.Point, bool, error)
}

// checkoutSession holds one user's in-progress checkout. The fee/coin
// configuration is snapshotted once at session start; an applied coupon stays
// bound to the subtotal it validated against. The struct is only ever read
// and written under CheckoutService.mu; readers work on a value copy, and the
// slice and pointers inside are never mutated after being set, so a copy
// stays consistent after the lock is released.
type checkoutSession struct {
	lines       []models.CartLine
	address     geo.Point
	addressText string
	phone       string
	fee         models.FeeConfig
	coin        models.CoinConfig
	coupon      *models.AppliedCoupon

	pendingBill *models.Bill
}

// PlaceOrderResult is what a place-order call produced: either a created
// booking (cash or zero payable) or a payment attempt the checkout UI must
// resolve first.
type PlaceOrderResult struct {
	Bill    models.Bill     `json:"bill"`
	Booking *models.Booking `json:"booking,omitempty"`
	Attempt *pay.Attempt    `json:"payment_attempt,omitempty"`
}

// CheckoutService turns a cart into a payable booking. It owns the pricing
// call order, coupon re-validation, and the payment-or-cash decision; the
// actual booking write is delegated to the lifecycle service.
type CheckoutService struct {
	Coupons   CouponValidator
	Wallet    BalanceFetcher
	Config    ConfigSource
	Locator   WorkerLocatorSource
	Payments  *pay.Orchestrator
	Lifecycle *lifecycle.Service
	Currency  string

	mu       sync.Mutex
	sessions map[int64]*checkoutSession
}

// NewCheckoutService wires a checkout service.
func NewCheckoutService(coupons CouponValidator, wallet BalanceFetcher, config ConfigSource, locator WorkerLocatorSource, payments *pay.Orchestrator, lc *lifecycle.Service) *CheckoutService {
	return &CheckoutService{
		Coupons:   coupons,
		Wallet:    wallet,
		Config:    config,
		Locator:   locator,
		Payments:  payments,
		Lifecycle: lc,
		Currency:  "INR",
		sessions:  make(map[int64]*checkoutSession),
	}
}

// StartCheckout opens (or replaces) the user's checkout session with the
// given cart. Replacing the cart drops any applied coupon: a coupon is bound
// to the subtotal it validated against and must be re-validated.
func (s *CheckoutService) StartCheckout(ctx context.Context, userID int64, lines []models.CartLine, addressText string, address geo.Point, phone string) error {
	if len(lines) == 0 {
		return models.ErrEmptyCart
	}
	for _, l := range lines {
		if l.Price <= 0 {
			return &models.ValidationError{Field: "price", Reason: "must be positive"}
		}
		if l.Days < 1 {
			return &models.ValidationError{Field: "days", Reason: "must be at least 1"}
		}
	}
	if addressText == "" {
		return &models.ValidationError{Field: "address", Reason: "is required"}
	}
	if phone == "" {
		return &models.ValidationError{Field: "phone", Reason: "is required"}
	}

	fee, coin, err := s.Config.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load pricing config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &checkoutSession{
		lines:       lines,
		address:     address,
		addressText: addressText,
		phone:       phone,
		fee:         fee,
		coin:        coin,
	}
	return nil
}

// snapshot returns a value copy of the user's session taken under the lock.
// All computation happens on the copy so slow work (wallet fetch, gateway
// round-trip) never holds the lock and never races a concurrent write.
func (s *CheckoutService) snapshot(userID int64) (checkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return checkoutSession{}, models.ErrNoCheckoutSession
	}
	return *sess, nil
}

// ApplyCoupon validates a code against the current subtotal and binds the
// result to the session. If the cart is replaced while the validation call is
// in flight, the coupon still binds the old subtotal and the next bill
// computation rejects it as stale.
func (s *CheckoutService) ApplyCoupon(ctx context.Context, userID int64, code string) (models.AppliedCoupon, error) {
	sess, err := s.snapshot(userID)
	if err != nil {
		return models.AppliedCoupon{}, err
	}
	coupon, err := s.Coupons.Validate(ctx, code, models.CartSubtotal(sess.lines))
	if err != nil {
		return models.AppliedCoupon{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[userID]
	if !ok {
		return models.AppliedCoupon{}, models.ErrNoCheckoutSession
	}
	stored.coupon = &coupon
	return coupon, nil
}

// distanceKm resolves the distance between the service address and the first
// worker bound to any cart line. Unbound carts and unknown worker locations
// yield NaN, which the calculator treats as "no travel charge yet".
func (s *CheckoutService) distanceKm(ctx context.Context, sess checkoutSession) float64 {
	for _, l := range sess.lines {
		if l.WorkerID == 0 {
			continue
		}
		if l.WorkerLocation != nil {
			return geo.DistanceKm(sess.address, *l.WorkerLocation)
		}
		if s.Locator != nil {
			if p, ok, err := s.Locator.Locate(ctx, l.WorkerID); err == nil && ok {
				return geo.DistanceKm(sess.address, p)
			}
		}
		break
	}
	return math.NaN()
}

func (s *CheckoutService) computeBill(ctx context.Context, userID int64, sess checkoutSession, useCoins, useWallet bool) (models.Bill, error) {
	wallet := models.WalletState{}
	if useCoins || useWallet {
		var err error
		wallet, err = s.Wallet.Balance(ctx, userID)
		if err != nil {
			return models.Bill{}, fmt.Errorf("fetch wallet balance: %w", err)
		}
	}
	return pricing.ComputeBill(sess.lines, sess.fee, sess.coupon, sess.coin, wallet, pricing.Opts{
		UseCoins:   useCoins,
		UseWallet:  useWallet,
		DistanceKm: s.distanceKm(ctx, sess),
	})
}

// Quote recomputes the itemized bill for the current session. Safe to call on
// every cart or opt-in change; the computation has no side effects.
func (s *CheckoutService) Quote(ctx context.Context, userID int64, useCoins, useWallet bool) (models.Bill, error) {
	sess, err := s.snapshot(userID)
	if err != nil {
		return models.Bill{}, err
	}
	return s.computeBill(ctx, userID, sess, useCoins, useWallet)
}

// PlaceOrder commits the checkout. Zero-payable orders and cash orders create
// the booking immediately; online orders open exactly one payment attempt and
// create nothing until the gateway result is verified.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int64, method string, useCoins, useWallet bool) (PlaceOrderResult, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodOnline {
		return PlaceOrderResult{}, &models.ValidationError{Field: "payment_method", Reason: "must be cash or online"}
	}
	sess, err := s.snapshot(userID)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	bill, err := s.computeBill(ctx, userID, sess, useCoins, useWallet)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	if bill.FinalPayable == 0 {
		// Fully discounted: no payment method selection, no gateway trip.
		booking, err := s.createBooking(ctx, userID, sess, bill, method, fsm.PaymentPaid, "")
		if err != nil {
			return PlaceOrderResult{}, err
		}
		s.clearSession(userID)
		return PlaceOrderResult{Bill: bill, Booking: &booking}, nil
	}

	if method == models.PaymentMethodCash {
		booking, err := s.createBooking(ctx, userID, sess, bill, method, fsm.PaymentPending, "")
		if err != nil {
			return PlaceOrderResult{}, err
		}
		s.clearSession(userID)
		return PlaceOrderResult{Bill: bill, Booking: &booking}, nil
	}

	attempt, err := s.Payments.Begin(ctx, checkoutID(userID), bill.FinalPayable, s.Currency)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	s.mu.Lock()
	if stored, ok := s.sessions[userID]; ok {
		stored.pendingBill = &bill
	}
	s.mu.Unlock()
	return PlaceOrderResult{Bill: bill, Attempt: &attempt}, nil
}

// ConfirmPayment consumes the gateway checkout result. Only a verified
// success creates the booking; cancellation and failure surface a retryable
// error and leave nothing behind.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, userID int64, token string, res pay.CheckoutResult) (models.Booking, error) {
	sess, err := s.snapshot(userID)
	if err != nil {
		return models.Booking{}, err
	}
	if sess.pendingBill == nil {
		return models.Booking{}, fmt.Errorf("%w: no payment attempt for this session", models.ErrStateConflict)
	}

	receipt, err := s.Payments.Resolve(ctx, checkoutID(userID), token, res)
	if err != nil {
		s.clearPendingBill(userID)
		return models.Booking{}, err
	}

	booking, err := s.createBooking(ctx, userID, sess, *sess.pendingBill, models.PaymentMethodOnline, fsm.PaymentPaid, receipt.PaymentID)
	if err != nil {
		return models.Booking{}, err
	}
	s.clearSession(userID)
	return booking, nil
}

// AbandonPayment drops an unresolved attempt (timeout, user navigated away).
// The session survives, so the user can retry checkout.
func (s *CheckoutService) AbandonPayment(userID int64, token string) {
	s.Payments.Abandon(checkoutID(userID), token)
	s.clearPendingBill(userID)
}

func (s *CheckoutService) clearPendingBill(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.pendingBill = nil
	}
}

func (s *CheckoutService) clearSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func checkoutID(userID int64) string {
	return fmt.Sprintf("checkout:%d", userID)
}

// createBooking copies the cart into a booking draft. One booking is created
// per checkout commit: its price is the cart subtotal and its final price the
// payable amount, per-line details joined into the service label.
func (s *CheckoutService) createBooking(ctx context.Context, userID int64, sess checkoutSession, bill models.Bill, method, paymentStatus, paymentID string) (models.Booking, error) {
	first := sess.lines[0]
	labels := make([]string, 0, len(sess.lines))
	days := 0
	var workerID int64
	for _, l := range sess.lines {
		labels = append(labels, l.Service)
		days += l.Days
		if workerID == 0 && l.WorkerID != 0 {
			workerID = l.WorkerID
		}
	}

	draft := models.Booking{
		UserID:           userID,
		PaymentStatus:    paymentStatus,
		PaymentMethod:    method,
		Category:         first.Category,
		Service:          strings.Join(labels, ", "),
		BookingType:      first.BookingType,
		Days:             days,
		Price:            bill.Subtotal,
		PlatformFee:      bill.PlatformFee,
		TravelCharge:     bill.TravelCharge,
		CouponDiscount:   bill.CouponDiscount,
		CoinDiscount:     bill.CoinDiscount,
		WalletAmountUsed: bill.WalletAmountUsed,
		FinalPrice:       bill.FinalPayable,
		WorkerID:         workerID,
		Address:          sess.addressText,
		AddressLat:       sess.address.Lat,
		AddressLon:       sess.address.Lon,
		Phone:            sess.phone,
		PaymentID:        paymentID,
	}
	return s.Lifecycle.Create(ctx, draft)
}
