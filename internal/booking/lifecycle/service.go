package lifecycle

import (
	"context"
	"time"

	"servioBack/internal/booking/fsm"
	"servioBack/internal/booking/otp"
	"servioBack/internal/models"
)

// BookingStore is the authoritative writer for booking aggregates. Every
// status-changing operation is conditioned on the observed status and fails
// with models.ErrStaleStatus when a concurrent writer got there first.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	Get(ctx context.Context, id int64) (models.Booking, error)
	Transition(ctx context.Context, id int64, from, to string) error
	AssignWorker(ctx context.Context, id, workerID int64, travelCharge int) error
	SetPaymentStatus(ctx context.Context, id int64, status string) error
	MarkRefundRequested(ctx context.Context, id int64) error
}

// Service drives a booking from creation to completion or cancellation. The
// two worker-side transitions are gated by one-time passcodes.
type Service struct {
	store BookingStore
	gate  *otp.Gate
	now   func() time.Time
}

// NewService constructs a lifecycle service.
func NewService(store BookingStore, gate *otp.Gate) *Service {
	return &Service{store: store, gate: gate, now: time.Now}
}

// Create persists a booking draft at checkout commit. The initial status is
// pending, or assigned when the customer picked a specific worker.
func (s *Service) Create(ctx context.Context, draft models.Booking) (models.Booking, error) {
	if draft.Status == "" {
		if draft.WorkerID != 0 {
			draft.Status = fsm.StatusAssigned
		} else {
			draft.Status = fsm.StatusPending
		}
	}
	if draft.PaymentStatus == "" {
		draft.PaymentStatus = fsm.PaymentPending
	}
	draft.CreatedAt = s.now()
	return s.store.Create(ctx, draft)
}

// Get returns the booking by id.
func (s *Service) Get(ctx context.Context, id int64) (models.Booking, error) {
	return s.store.Get(ctx, id)
}

// Assign binds a worker to a pending booking and adds the travel charge
// computed from the worker's location at assignment time.
func (s *Service) Assign(ctx context.Context, id, workerID int64, travelCharge int) (models.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != fsm.StatusPending {
		return models.Booking{}, models.ErrInvalidTransition
	}
	if err := s.store.AssignWorker(ctx, id, workerID, travelCharge); err != nil {
		return models.Booking{}, err
	}
	return s.store.Get(ctx, id)
}

// RequestStartOTP issues a start code for an assigned booking. The status is
// not changed; the code travels out of band to the customer.
func (s *Service) RequestStartOTP(ctx context.Context, id int64) (string, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if b.Status != fsm.StatusAssigned {
		return "", models.ErrInvalidTransition
	}
	return s.gate.Issue(ctx, id, otp.KindStart)
}

// Start moves an assigned booking to in-progress. The code is checked first,
// so a replayed request with an already-consumed code reports "already used"
// and leaves the status untouched.
func (s *Service) Start(ctx context.Context, id int64, code string) (models.Booking, error) {
	if err := s.gate.Verify(ctx, id, otp.KindStart, code); err != nil {
		return models.Booking{}, err
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != fsm.StatusAssigned {
		return models.Booking{}, models.ErrInvalidTransition
	}
	if err := s.store.Transition(ctx, id, fsm.StatusAssigned, fsm.StatusInProgress); err != nil {
		return models.Booking{}, err
	}
	return s.store.Get(ctx, id)
}

// RequestCompletionOTP issues a completion code for an in-progress booking.
func (s *Service) RequestCompletionOTP(ctx context.Context, id int64) (string, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if b.Status != fsm.StatusInProgress {
		return "", models.ErrInvalidTransition
	}
	return s.gate.Issue(ctx, id, otp.KindCompletion)
}

// Complete finishes an in-progress booking. Cash bookings settle here: the
// payment status flips to paid at completion.
func (s *Service) Complete(ctx context.Context, id int64, code string) (models.Booking, error) {
	if err := s.gate.Verify(ctx, id, otp.KindCompletion, code); err != nil {
		return models.Booking{}, err
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != fsm.StatusInProgress {
		return models.Booking{}, models.ErrInvalidTransition
	}
	if err := s.store.Transition(ctx, id, fsm.StatusInProgress, fsm.StatusCompleted); err != nil {
		return models.Booking{}, err
	}
	if b.PaymentMethod == models.PaymentMethodCash && b.PaymentStatus != fsm.PaymentPaid {
		if err := s.store.SetPaymentStatus(ctx, id, fsm.PaymentPaid); err != nil {
			return models.Booking{}, err
		}
	}
	return s.store.Get(ctx, id)
}

// Cancel terminates a booking that has not started. Cancellation is
// irreversible; a paid booking is flagged for external refund processing.
func (s *Service) Cancel(ctx context.Context, id int64) (models.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != fsm.StatusPending && b.Status != fsm.StatusAssigned {
		return models.Booking{}, models.ErrInvalidTransition
	}
	if err := s.store.Transition(ctx, id, b.Status, fsm.StatusCancelled); err != nil {
		return models.Booking{}, err
	}
	if b.PaymentStatus == fsm.PaymentPaid {
		if err := s.store.MarkRefundRequested(ctx, id); err != nil {
			return models.Booking{}, err
		}
	}
	return s.store.Get(ctx, id)
}
