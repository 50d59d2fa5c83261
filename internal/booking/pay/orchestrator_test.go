package pay

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"servioBack/internal/models"
)

type stubGateway struct {
	created int
	secret  string
	fail    bool
}

func (g *stubGateway) CreateOrder(_ context.Context, amountMinor int, currency, receipt string) (Order, error) {
	if g.fail {
		return Order{}, errors.New("gateway down")
	}
	g.created++
	return Order{ID: fmt.Sprintf("order_%d", g.created), Amount: amountMinor, Currency: currency}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyHMAC([]byte(orderID+"|"+paymentID), signature, g.secret)
}

func (g *stubGateway) sign(orderID, paymentID string) string {
	return Sign([]byte(orderID+"|"+paymentID), g.secret)
}

func TestOrchestratorVerifiedFlow(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{secret: "s3cr3t"}
	o := NewOrchestrator(gw, time.Minute)

	attempt, err := o.Begin(ctx, "user:1", 550, "INR")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if attempt.Order.Amount != 55000 {
		t.Fatalf("expected minor-unit amount 55000, got %d", attempt.Order.Amount)
	}
	if attempt.Phase != PhaseAwaiting {
		t.Fatalf("expected awaiting phase, got %s", attempt.Phase)
	}

	receipt, err := o.Resolve(ctx, "user:1", attempt.Token, CheckoutResult{
		Outcome:   OutcomeSuccess,
		OrderID:   attempt.Order.ID,
		PaymentID: "pay_9",
		Signature: gw.sign(attempt.Order.ID, "pay_9"),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if receipt.PaymentID != "pay_9" {
		t.Fatalf("receipt payment id mismatch: %q", receipt.PaymentID)
	}
}

func TestOrchestratorSingleInFlightAttempt(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{secret: "s"}
	o := NewOrchestrator(gw, time.Minute)

	attempt, err := o.Begin(ctx, "user:1", 100, "INR")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := o.Begin(ctx, "user:1", 100, "INR"); !errors.Is(err, models.ErrCheckoutInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}
	if gw.created != 1 {
		t.Fatalf("expected exactly one gateway order, got %d", gw.created)
	}

	// Other checkouts are unaffected.
	if _, err := o.Begin(ctx, "user:2", 100, "INR"); err != nil {
		t.Fatalf("parallel checkout: %v", err)
	}

	// After a terminal outcome the checkout may retry.
	if _, err := o.Resolve(ctx, "user:1", attempt.Token, CheckoutResult{Outcome: OutcomeCancelled}); !errors.Is(err, models.ErrPaymentCancelled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if _, err := o.Begin(ctx, "user:1", 100, "INR"); err != nil {
		t.Fatalf("retry after cancel: %v", err)
	}
}

func TestOrchestratorBadSignature(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{secret: "s"}
	o := NewOrchestrator(gw, time.Minute)

	attempt, err := o.Begin(ctx, "user:1", 100, "INR")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err = o.Resolve(ctx, "user:1", attempt.Token, CheckoutResult{
		Outcome:   OutcomeSuccess,
		OrderID:   attempt.Order.ID,
		PaymentID: "pay_1",
		Signature: "forged",
	})
	if !errors.Is(err, models.ErrBadSignature) {
		t.Fatalf("expected signature rejection, got %v", err)
	}
}

func TestOrchestratorFailureLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{secret: "s", fail: true}
	o := NewOrchestrator(gw, time.Minute)

	if _, err := o.Begin(ctx, "user:1", 100, "INR"); !errors.Is(err, models.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	gw.fail = false
	if _, err := o.Begin(ctx, "user:1", 100, "INR"); err != nil {
		t.Fatalf("retry after gateway failure: %v", err)
	}
}

func TestOrchestratorTokenMismatch(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{secret: "s"}
	o := NewOrchestrator(gw, time.Minute)

	attempt, err := o.Begin(ctx, "user:1", 100, "INR")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := o.Resolve(ctx, "user:1", "stale-token", CheckoutResult{Outcome: OutcomeSuccess}); !errors.Is(err, models.ErrStateConflict) {
		t.Fatalf("expected state conflict for stale token, got %v", err)
	}
	// The real attempt is still resolvable.
	if _, err := o.Resolve(ctx, "user:1", attempt.Token, CheckoutResult{Outcome: OutcomeCancelled}); !errors.Is(err, models.ErrPaymentCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestOrchestratorAbandon(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{secret: "s"}
	o := NewOrchestrator(gw, time.Minute)

	attempt, err := o.Begin(ctx, "user:1", 100, "INR")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	o.Abandon("user:1", attempt.Token)
	if _, err := o.Begin(ctx, "user:1", 100, "INR"); err != nil {
		t.Fatalf("begin after abandon: %v", err)
	}
}
