package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"servioBack/internal/models"
)

// Kind names the guarded transition a code authorizes.
type Kind string

const (
	KindStart      Kind = "start"
	KindCompletion Kind = "completion"
)

// Store persists issued codes. Put overwrites any previous code of the same
// kind for the booking, so only the most recently issued generation can ever
// verify. Consume must be atomic: two identical verify requests must not both
// succeed.
type Store interface {
	Put(ctx context.Context, bookingID int64, kind Kind, code string, ttl time.Duration) error
	Consume(ctx context.Context, bookingID int64, kind Kind, code string) error
}

// Gate issues and verifies short-lived numeric codes bound to a booking and a
// transition kind. Codes are single use; verification errors are distinct so
// the caller can offer "resend" versus "retype".
type Gate struct {
	store Store
	ttl   time.Duration

	newCode func() (string, error)
}

// NewGate constructs a gate. ttl bounds how long an issued code stays valid.
func NewGate(store Store, ttl time.Duration) *Gate {
	return &Gate{store: store, ttl: ttl, newCode: generateCode}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Issue creates a fresh 4-digit code for the booking and kind, invalidating
// any previously issued code of the same kind. The code is returned only so
// the caller can hand it to the out-of-band delivery channel; it must never
// appear in responses to the requesting party.
func (g *Gate) Issue(ctx context.Context, bookingID int64, kind Kind) (string, error) {
	code, err := g.newCode()
	if err != nil {
		return "", err
	}
	if err := g.store.Put(ctx, bookingID, kind, code, g.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the code on success. Wrong, expired and already-used codes
// fail with models.ErrOtpMismatch, models.ErrOtpExpired and models.ErrOtpUsed
// respectively.
func (g *Gate) Verify(ctx context.Context, bookingID int64, kind Kind, code string) error {
	return g.store.Consume(ctx, bookingID, kind, code)
}

type memoryEntry struct {
	code      string
	used      bool
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

func entryKey(bookingID int64, kind Kind) string {
	return fmt.Sprintf("%d:%s", bookingID, kind)
}

func (s *MemoryStore) Put(_ context.Context, bookingID int64, kind Kind, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entryKey(bookingID, kind)] = &memoryEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, bookingID int64, kind Kind, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entryKey(bookingID, kind)
	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return models.ErrOtpExpired
	}
	if code != e.code {
		return models.ErrOtpMismatch
	}
	if e.used {
		return models.ErrOtpUsed
	}
	e.used = true
	return nil
}
