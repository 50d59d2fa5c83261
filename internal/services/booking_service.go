package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"servioBack/internal/booking/geo"
	"servioBack/internal/booking/lifecycle"
	"servioBack/internal/models"
)

// OtpSender delivers a one-time code out of band. Codes never travel back in
// API responses.
type OtpSender interface {
	SendOtp(ctx context.Context, phone, code string) error
}

// BookingLister extends the lifecycle store with read queries the API needs.
type BookingLister interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
}

// BookingService fronts the lifecycle engine for the HTTP layer. It resolves
// worker positions for travel charges and pushes start/completion codes to
// the customer's phone.
type BookingService struct {
	Lifecycle *lifecycle.Service
	Lister    BookingLister
	Locator   WorkerLocatorSource
	Config    ConfigSource
	Sms       OtpSender
	Logger    *slog.Logger
}

// Get returns a single booking.
func (s *BookingService) Get(ctx context.Context, id int64) (models.Booking, error) {
	return s.Lifecycle.Get(ctx, id)
}

// ListByUser returns the user's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	if s.Lister == nil {
		return nil, nil
	}
	return s.Lister.ListByUser(ctx, userID)
}

// Assign binds a worker to a pending booking. The travel charge is computed
// here from the worker's current position; an unknown position or an inactive
// fee config charges nothing.
func (s *BookingService) Assign(ctx context.Context, id, workerID int64) (models.Booking, error) {
	b, err := s.Lifecycle.Get(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	charge, err := s.travelCharge(ctx, workerID, geo.Point{Lat: b.AddressLat, Lon: b.AddressLon})
	if err != nil {
		return models.Booking{}, err
	}
	return s.Lifecycle.Assign(ctx, id, workerID, charge)
}

func (s *BookingService) travelCharge(ctx context.Context, workerID int64, address geo.Point) (int, error) {
	fee, _, err := s.Config.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("load pricing config: %w", err)
	}
	if !fee.IsActive || fee.TravelChargePerKm <= 0 {
		return 0, nil
	}
	if s.Locator == nil {
		return 0, nil
	}
	pos, ok, err := s.Locator.Locate(ctx, workerID)
	if err != nil || !ok {
		if err != nil && s.Logger != nil {
			s.Logger.Warn("worker location lookup failed", "worker_id", workerID, "error", err)
		}
		return 0, nil
	}
	dist := geo.DistanceKm(address, pos)
	if math.IsNaN(dist) {
		return 0, nil
	}
	return int(math.Round(dist * float64(fee.TravelChargePerKm))), nil
}

// RequestStartOTP issues a start code and texts it to the booking's phone.
func (s *BookingService) RequestStartOTP(ctx context.Context, id int64) error {
	code, err := s.Lifecycle.RequestStartOTP(ctx, id)
	if err != nil {
		return err
	}
	return s.deliver(ctx, id, code)
}

// Start verifies the customer's start code and moves the booking to
// in-progress.
func (s *BookingService) Start(ctx context.Context, id int64, code string) (models.Booking, error) {
	return s.Lifecycle.Start(ctx, id, code)
}

// RequestCompletionOTP issues a completion code and texts it to the customer.
func (s *BookingService) RequestCompletionOTP(ctx context.Context, id int64) error {
	code, err := s.Lifecycle.RequestCompletionOTP(ctx, id)
	if err != nil {
		return err
	}
	return s.deliver(ctx, id, code)
}

// Complete verifies the completion code and finishes the booking.
func (s *BookingService) Complete(ctx context.Context, id int64, code string) (models.Booking, error) {
	return s.Lifecycle.Complete(ctx, id, code)
}

// Cancel cancels a booking that has not started yet.
func (s *BookingService) Cancel(ctx context.Context, id int64) (models.Booking, error) {
	return s.Lifecycle.Cancel(ctx, id)
}

func (s *BookingService) deliver(ctx context.Context, id int64, code string) error {
	b, err := s.Lifecycle.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Sms.SendOtp(ctx, b.Phone, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}
