package pay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"servioBack/internal/models"
)

// Phase tracks a checkout attempt through the gateway round-trip.
type Phase string

const (
	PhaseOrderCreated Phase = "order_created"
	PhaseAwaiting     Phase = "awaiting_confirmation"
)

// Outcome is the three-valued result the checkout UI reports back.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// CheckoutResult is what the gateway's checkout UI produced for an attempt.
type CheckoutResult struct {
	Outcome   Outcome `json:"outcome"`
	OrderID   string  `json:"order_id"`
	PaymentID string  `json:"payment_id"`
	Signature string  `json:"signature"`
	Reason    string  `json:"reason,omitempty"`
}

// Attempt is one in-flight checkout. Token must be echoed back on resolve so
// a stale client cannot settle a newer attempt.
type Attempt struct {
	Token      string    `json:"token"`
	CheckoutID string    `json:"checkout_id"`
	Order      Order     `json:"order"`
	Phase      Phase     `json:"phase"`
	StartedAt  time.Time `json:"started_at"`
}

// Receipt is the proof of a verified payment.
type Receipt struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

// Orchestrator guarantees each checkout produces a gateway order exactly
// once: a second Begin for the same checkout while one attempt is in flight
// is rejected, and every attempt ends in exactly one terminal outcome.
type Orchestrator struct {
	gateway Gateway
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	inflight map[string]*Attempt
}

// NewOrchestrator creates an orchestrator. attemptTTL bounds how long an
// unresolved attempt blocks new ones; after it a retry is allowed.
func NewOrchestrator(gateway Gateway, attemptTTL time.Duration) *Orchestrator {
	return &Orchestrator{
		gateway:  gateway,
		ttl:      attemptTTL,
		now:      time.Now,
		inflight: make(map[string]*Attempt),
	}
}

// Begin creates a gateway order for the payable amount (whole rupees) and
// opens an attempt. Returns models.ErrCheckoutInFlight when an unexpired
// attempt already exists for the checkout.
func (o *Orchestrator) Begin(ctx context.Context, checkoutID string, amount int, currency string) (Attempt, error) {
	if amount <= 0 {
		return Attempt{}, &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	o.mu.Lock()
	if existing, ok := o.inflight[checkoutID]; ok {
		if o.now().Sub(existing.StartedAt) < o.ttl {
			o.mu.Unlock()
			return Attempt{}, models.ErrCheckoutInFlight
		}
		delete(o.inflight, checkoutID)
	}
	attempt := &Attempt{
		Token:      uuid.NewString(),
		CheckoutID: checkoutID,
		Phase:      PhaseOrderCreated,
		StartedAt:  o.now(),
	}
	// Reserve the slot before the gateway call so a concurrent retry cannot
	// create a duplicate order.
	o.inflight[checkoutID] = attempt
	o.mu.Unlock()

	order, err := o.gateway.CreateOrder(ctx, amount*100, currency, attempt.Token)
	if err != nil {
		o.mu.Lock()
		delete(o.inflight, checkoutID)
		o.mu.Unlock()
		return Attempt{}, fmt.Errorf("%w: %v", models.ErrPaymentFailed, err)
	}

	o.mu.Lock()
	attempt.Order = order
	attempt.Phase = PhaseAwaiting
	o.mu.Unlock()
	return *attempt, nil
}

// Resolve consumes the checkout UI result for an attempt. Only a verified
// success yields a receipt; every path closes the attempt, so the checkout
// may be retried from scratch afterwards.
func (o *Orchestrator) Resolve(ctx context.Context, checkoutID, token string, res CheckoutResult) (Receipt, error) {
	o.mu.Lock()
	attempt, ok := o.inflight[checkoutID]
	if !ok {
		o.mu.Unlock()
		return Receipt{}, fmt.Errorf("%w: no payment attempt in flight", models.ErrStateConflict)
	}
	if attempt.Token != token {
		o.mu.Unlock()
		return Receipt{}, fmt.Errorf("%w: attempt token mismatch", models.ErrStateConflict)
	}
	delete(o.inflight, checkoutID)
	order := attempt.Order
	o.mu.Unlock()

	switch res.Outcome {
	case OutcomeCancelled:
		return Receipt{}, models.ErrPaymentCancelled
	case OutcomeFailed:
		if res.Reason != "" {
			return Receipt{}, fmt.Errorf("%w: %s", models.ErrPaymentFailed, res.Reason)
		}
		return Receipt{}, models.ErrPaymentFailed
	case OutcomeSuccess:
		if res.OrderID != order.ID {
			return Receipt{}, fmt.Errorf("%w: result references a different order", models.ErrStateConflict)
		}
		if !o.gateway.VerifySignature(res.OrderID, res.PaymentID, res.Signature) {
			return Receipt{}, models.ErrBadSignature
		}
		return Receipt{OrderID: res.OrderID, PaymentID: res.PaymentID}, nil
	default:
		return Receipt{}, &models.ValidationError{Field: "outcome", Reason: "unknown checkout outcome"}
	}
}

// Abandon drops an attempt without settling it, for timeout or user
// navigation away. Unknown attempts are ignored.
func (o *Orchestrator) Abandon(checkoutID, token string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if attempt, ok := o.inflight[checkoutID]; ok && attempt.Token == token {
		delete(o.inflight, checkoutID)
	}
}
