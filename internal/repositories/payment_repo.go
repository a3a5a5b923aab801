package repositories

import (
	"context"
	"time"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentRepository interface {
	WithTx(tx Database) PaymentRepository
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Payment, error)
	SumByBooking(ctx context.Context, bookingID uuid.UUID) (decimal.Decimal, *time.Time, error)
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) WithTx(tx Database) PaymentRepository {
	return &paymentRepo{db: tx}
}

const paymentColumns = `id, booking_id, amount, date, method, notes, created_by, updated_by, created_at, updated_at`

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, date, method, notes, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.BookingID, payment.Amount,
		payment.Date, payment.Method, payment.Notes, payment.CreatedBy, payment.UpdatedBy)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Date,
		&p.Method, &p.Notes, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET booking_id = $1, amount = $2, date = $3, method = $4, notes = $5, updated_by = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, payment.BookingID, payment.Amount, payment.Date,
		payment.Method, payment.Notes, payment.UpdatedBy, payment.ID)
	return err
}

func (r *paymentRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY date ASC, created_at ASC`
	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Date, &p.Method, &p.Notes,
			&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SumByBooking returns the payment total and latest payment date for a
// booking. The booking service calls this inside the same transaction as
// the payment write so the derived amount_paid can never drift.
func (r *paymentRepo) SumByBooking(ctx context.Context, bookingID uuid.UUID) (decimal.Decimal, *time.Time, error) {
	var sum decimal.Decimal
	var last *time.Time
	query := `SELECT COALESCE(SUM(amount), 0), MAX(date) FROM payments WHERE booking_id = $1`
	if err := r.db.QueryRow(ctx, query, bookingID).Scan(&sum, &last); err != nil {
		return decimal.Zero, nil, err
	}
	return sum, last, nil
}
