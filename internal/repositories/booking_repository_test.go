package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"servioBack/internal/booking/fsm"
	"servioBack/internal/models"
)

func TestBookingRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	repo := BookingRepository{DB: db}
	b, err := repo.Create(context.Background(), models.Booking{
		UserID:        1,
		Status:        fsm.StatusPending,
		PaymentStatus: fsm.PaymentPending,
		PaymentMethod: models.PaymentMethodCash,
		Service:       "cleaning",
		Price:         500,
		FinalPrice:    500,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID != 42 {
		t.Fatalf("expected id 42, got %d", b.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepositoryTransitionStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(fsm.StatusInProgress, int64(5), fsm.StatusAssigned).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepository{DB: db}
	err = repo.Transition(context.Background(), 5, fsm.StatusAssigned, fsm.StatusInProgress)
	if !errors.Is(err, models.ErrStaleStatus) {
		t.Fatalf("expected stale status error, got %v", err)
	}
}

func TestBookingRepositoryTransitionInvalidSkipsDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepository{DB: db}
	err = repo.Transition(context.Background(), 5, fsm.StatusPending, fsm.StatusCompleted)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query should have run: %v", err)
	}
}

func TestBookingRepositoryAssignWorker(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(fsm.StatusAssigned, int64(9), 31, int64(5), fsm.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepository{DB: db}
	if err := repo.AssignWorker(context.Background(), 5, 9, 31); err != nil {
		t.Fatalf("AssignWorker: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPricingConfigRepositorySnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT is_active`).
		WillReturnRows(sqlmock.NewRows([]string{"is_active", "platform_fee", "travel_charge_per_km", "coin_to_rupee_rate", "max_usage_percentage"}).
			AddRow(true, 49, 10, 1.0, 20))

	repo := PricingConfigRepository{DB: db}
	fee, coin, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !fee.IsActive || fee.PlatformFee != 49 || fee.TravelChargePerKm != 10 {
		t.Fatalf("fee config mismatch: %+v", fee)
	}
	if coin.CoinToRupeeRate != 1.0 || coin.MaxUsagePercentage != 20 {
		t.Fatalf("coin config mismatch: %+v", coin)
	}
}
