package lifecycle

import (
	"context"
	"sync"
	"time"

	"servioBack/internal/booking/fsm"
	"servioBack/internal/models"
)

// MemoryStore is an in-process BookingStore with the same optimistic
// transition semantics as the Postgres repository. Used in tests and local
// runs without a database.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]models.Booking
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, bookings: make(map[int64]models.Booking)}
}

func (s *MemoryStore) Create(_ context.Context, b models.Booking) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	s.bookings[b.ID] = b
	return b, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return b, nil
}

func (s *MemoryStore) Transition(_ context.Context, id int64, from, to string) error {
	if !fsm.CanTransition(from, to) {
		return models.ErrInvalidTransition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	if b.Status != from {
		return models.ErrStaleStatus
	}
	now := time.Now()
	b.Status = to
	b.UpdatedAt = &now
	switch to {
	case fsm.StatusInProgress:
		b.StartedAt = &now
	case fsm.StatusCompleted:
		b.CompletedAt = &now
	case fsm.StatusCancelled:
		b.CancelledAt = &now
	}
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) AssignWorker(_ context.Context, id, workerID int64, travelCharge int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	if b.Status != fsm.StatusPending {
		return models.ErrStaleStatus
	}
	now := time.Now()
	b.Status = fsm.StatusAssigned
	b.WorkerID = workerID
	b.TravelCharge += travelCharge
	b.FinalPrice += travelCharge
	b.UpdatedAt = &now
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) SetPaymentStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.PaymentStatus = status
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) MarkRefundRequested(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.RefundRequested = true
	s.bookings[id] = b
	return nil
}
