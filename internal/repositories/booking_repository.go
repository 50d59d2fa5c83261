package repositories

import (
	"context"
	"database/sql"
	"errors"

	"servioBack/internal/booking/fsm"
	"servioBack/internal/models"
)

// BookingRepository persists booking aggregates in Postgres. It implements
// lifecycle.BookingStore; every status change is conditioned on the observed
// status so concurrent transitions fail instead of overwriting each other.
type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, user_id, status, payment_status, payment_method, category, service,
	booking_type, days, price, platform_fee, travel_charge, coupon_discount, coin_discount,
	wallet_amount_used, final_price, worker_id, address, address_lat, address_lon, phone,
	payment_id, refund_requested, created_at, updated_at, started_at, completed_at, cancelled_at`

func (r *BookingRepository) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	query := `INSERT INTO bookings (user_id, status, payment_status, payment_method, category, service,
		booking_type, days, price, platform_fee, travel_charge, coupon_discount, coin_discount,
		wallet_amount_used, final_price, worker_id, address, address_lat, address_lon, phone,
		payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		b.UserID, b.Status, b.PaymentStatus, b.PaymentMethod, b.Category, b.Service,
		b.BookingType, b.Days, b.Price, b.PlatformFee, b.TravelCharge, b.CouponDiscount, b.CoinDiscount,
		b.WalletAmountUsed, b.FinalPrice, b.WorkerID, b.Address, b.AddressLat, b.AddressLon, b.Phone,
		b.PaymentID, b.CreatedAt,
	).Scan(&b.ID)
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) Get(ctx context.Context, id int64) (models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var b models.Booking
	var workerID sql.NullInt64
	var paymentID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Status, &b.PaymentStatus, &b.PaymentMethod, &b.Category, &b.Service,
		&b.BookingType, &b.Days, &b.Price, &b.PlatformFee, &b.TravelCharge, &b.CouponDiscount, &b.CoinDiscount,
		&b.WalletAmountUsed, &b.FinalPrice, &workerID, &b.Address, &b.AddressLat, &b.AddressLon, &b.Phone,
		&paymentID, &b.RefundRequested, &b.CreatedAt, &b.UpdatedAt, &b.StartedAt, &b.CompletedAt, &b.CancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, err
	}
	b.WorkerID = workerID.Int64
	b.PaymentID = paymentID.String
	return b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT id FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		b, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Transition applies an optimistic status change and stamps the matching
// timestamp column.
func (r *BookingRepository) Transition(ctx context.Context, id int64, from, to string) error {
	if !fsm.CanTransition(from, to) {
		return models.ErrInvalidTransition
	}
	var stamp string
	switch to {
	case fsm.StatusInProgress:
		stamp = ", started_at = now()"
	case fsm.StatusCompleted:
		stamp = ", completed_at = now()"
	case fsm.StatusCancelled:
		stamp = ", cancelled_at = now()"
	}
	query := `UPDATE bookings SET status = $1, updated_at = now()` + stamp + ` WHERE id = $2 AND status = $3`
	res, err := r.DB.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrStaleStatus
	}
	return nil
}

// AssignWorker binds a worker to a pending booking atomically with the
// status flip and folds the travel charge into the payable amount.
func (r *BookingRepository) AssignWorker(ctx context.Context, id, workerID int64, travelCharge int) error {
	query := `UPDATE bookings
		SET status = $1, worker_id = $2, travel_charge = travel_charge + $3,
		    final_price = final_price + $3, updated_at = now()
		WHERE id = $4 AND status = $5`
	res, err := r.DB.ExecContext(ctx, query, fsm.StatusAssigned, workerID, travelCharge, id, fsm.StatusPending)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrStaleStatus
	}
	return nil
}

func (r *BookingRepository) SetPaymentStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) MarkRefundRequested(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET refund_requested = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}
