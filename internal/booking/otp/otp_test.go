package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"servioBack/internal/models"
)

func TestGateIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), 5*time.Minute)

	code, err := gate.Issue(ctx, 42, KindStart)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("expected 4-digit code, got %q", code)
	}
	if err := gate.Verify(ctx, 42, KindStart, code); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestGateReplayReturnsUsed(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), 5*time.Minute)
	gate.newCode = func() (string, error) { return "4821", nil }

	code, err := gate.Issue(ctx, 7, KindStart)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := gate.Verify(ctx, 7, KindStart, code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if err := gate.Verify(ctx, 7, KindStart, "4821"); !errors.Is(err, models.ErrOtpUsed) {
		t.Fatalf("expected already-used error, got %v", err)
	}
}

func TestGateWrongCode(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), 5*time.Minute)

	code, err := gate.Issue(ctx, 7, KindCompletion)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	if err := gate.Verify(ctx, 7, KindCompletion, wrong); !errors.Is(err, models.ErrOtpMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	// A wrong attempt does not consume the real code.
	if err := gate.Verify(ctx, 7, KindCompletion, code); err != nil {
		t.Fatalf("verify after wrong attempt: %v", err)
	}
}

func TestGateExpiredCode(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	gate := NewGate(store, 2*time.Minute)

	code, err := gate.Issue(ctx, 9, KindStart)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	store.now = func() time.Time { return base.Add(3 * time.Minute) }
	if err := gate.Verify(ctx, 9, KindStart, code); !errors.Is(err, models.ErrOtpExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestGateReissueInvalidatesPrevious(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), 5*time.Minute)
	codes := []string{"1111", "2222"}
	gate.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	if _, err := gate.Issue(ctx, 11, KindStart); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := gate.Issue(ctx, 11, KindStart)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if err := gate.Verify(ctx, 11, KindStart, "1111"); !errors.Is(err, models.ErrOtpMismatch) {
		t.Fatalf("expected stale generation to mismatch, got %v", err)
	}
	if err := gate.Verify(ctx, 11, KindStart, second); err != nil {
		t.Fatalf("latest generation must verify: %v", err)
	}
}

func TestGateKindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(NewMemoryStore(), 5*time.Minute)
	gate.newCode = func() (string, error) { return "6060", nil }

	if _, err := gate.Issue(ctx, 5, KindStart); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := gate.Verify(ctx, 5, KindCompletion, "6060"); !errors.Is(err, models.ErrOtpExpired) {
		t.Fatalf("completion kind has no code, expected expired, got %v", err)
	}
}
