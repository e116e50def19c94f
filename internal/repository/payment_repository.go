package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showtime/movie-booking/internal/model"
)

// ErrPaymentNotFound is returned when a payment lookup yields no rows.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo provides data access to the payments table. Each booking
// has at most one payment record.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, booking_id, method, gateway, gateway_order_id, gateway_txn_id,
                        amount_cents, status, paid_at, refund_cents, refunded_at, refund_reason, created_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (model.Payment, error) {
	var p model.Payment
	var orderID, txnID, refundReason sql.NullString
	var paidAt, refundedAt sql.NullTime
	var refundCents sql.NullInt64
	err := row.Scan(&p.ID, &p.BookingID, &p.Method, &p.Gateway, &orderID, &txnID,
		&p.AmountCents, &p.Status, &paidAt, &refundCents, &refundedAt, &refundReason, &p.CreatedAt)
	if err != nil {
		return model.Payment{}, err
	}
	if orderID.Valid {
		p.OrderID = &orderID.String
	}
	if txnID.Valid {
		p.TxnID = &txnID.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	if refundCents.Valid {
		v := uint32(refundCents.Int64)
		p.RefundCents = &v
	}
	if refundedAt.Valid {
		t := refundedAt.Time
		p.RefundedAt = &t
	}
	if refundReason.Valid {
		p.RefundReason = &refundReason.String
	}
	return p, nil
}

// CreateTx inserts a payment record within the caller's transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p model.Payment) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, method, gateway, gateway_order_id, gateway_txn_id, amount_cents, status, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.BookingID, p.Method, p.Gateway, p.OrderID, p.TxnID, p.AmountCents, p.Status, p.PaidAt,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByBooking fetches the payment of a booking.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (model.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = ?`, bookingID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// MarkCompletedTx records a verified capture on a booking's pending
// payment within the caller's transaction.
func (r *PaymentRepo) MarkCompletedTx(ctx context.Context, tx *sql.Tx, bookingID uint64, txnID string, paidAt time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE payments
		 SET status = ?, gateway_txn_id = ?, paid_at = ?
		 WHERE booking_id = ? AND status = ?`,
		model.PaymentCompleted, txnID, paidAt, bookingID, model.PaymentPending,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// MarkRefundedTx records a refund on a booking's payment within the
// caller's transaction.
func (r *PaymentRepo) MarkRefundedTx(ctx context.Context, tx *sql.Tx, bookingID uint64, refundCents uint32, reason *string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE payments
		 SET status = ?, refund_cents = ?, refunded_at = UTC_TIMESTAMP(), refund_reason = ?
		 WHERE booking_id = ?`,
		model.PaymentRefunded, refundCents, reason, bookingID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
