package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caretrack/internal/codegen"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// TxStarter is the slice of pgxpool.Pool the services need to open
// transactions.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const codeRetries = 3

var (
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")
	ErrInvalidMethod = errors.New("unknown payment method")
	ErrBookingDates  = errors.New("recurring bookings need start date, end date and shift hours")
	ErrShiftHours    = errors.New("shift hours must be between 1 and 24")
	ErrCodeExhausted = errors.New("could not allocate a unique code")
)

type BookingService interface {
	Create(ctx context.Context, booking *models.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByCode(ctx context.Context, code string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, limit, offset int) ([]*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Booking, error)
	AddPayment(ctx context.Context, payment *models.Payment) (*models.Booking, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) (*models.Booking, error)
	ListPayments(ctx context.Context, bookingID uuid.UUID) ([]*models.Payment, error)
}

type bookingService struct {
	pool        TxStarter
	bookingRepo repositories.BookingRepository
	paymentRepo repositories.PaymentRepository
}

func NewBookingService(pool TxStarter, bookingRepo repositories.BookingRepository, paymentRepo repositories.PaymentRepository) BookingService {
	return &bookingService{pool: pool, bookingRepo: bookingRepo, paymentRepo: paymentRepo}
}

func validateBooking(booking *models.Booking) error {
	if booking.ChargeType == models.ChargeTypeRecurring {
		if booking.StartDate == nil || booking.EndDate == nil || booking.ShiftHours == nil {
			return ErrBookingDates
		}
		if booking.EndDate.Before(*booking.StartDate) {
			return ErrBookingDates
		}
		if *booking.ShiftHours < 1 || *booking.ShiftHours > 24 {
			return ErrShiftHours
		}
	}
	return nil
}

// Create inserts a booking. A positive AmountPaid on the incoming booking
// is treated as a payment taken at the counter: it becomes a Payment row in
// the same transaction and the stored amount_paid is then derived from the
// ledger like every other payment.
func (s *bookingService) Create(ctx context.Context, booking *models.Booking) error {
	if err := validateBooking(booking); err != nil {
		return err
	}
	initial := booking.AmountPaid
	if initial.IsNegative() {
		return ErrInvalidAmount
	}
	booking.ID = uuid.New()
	booking.AmountPaid = decimal.Zero
	booking.LastPaymentDate = nil
	RecalculateBooking(booking)

	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.bookingRepo.ListCodes(ctx, codegen.BookingPrefix)
		if err != nil {
			return err
		}
		booking.BookingCode = codegen.Next(codegen.BookingPrefix, codegen.EntityWidth, codes)
		err = s.createWithInitialPayment(ctx, booking, initial)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *bookingService) createWithInitialPayment(ctx context.Context, booking *models.Booking, initial decimal.Decimal) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	bookingRepo := s.bookingRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)

	if err := bookingRepo.Create(ctx, booking); err != nil {
		return err
	}
	if initial.IsPositive() {
		notes := "Recorded at booking creation"
		payment := &models.Payment{
			ID:        uuid.New(),
			BookingID: booking.ID,
			Amount:    initial,
			Date:      time.Now(),
			Notes:     &notes,
			CreatedBy: booking.CreatedBy,
			UpdatedBy: booking.UpdatedBy,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := reconcileBooking(ctx, booking, bookingRepo, paymentRepo); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	return s.bookingRepo.GetByCode(ctx, code)
}

// Update rewrites a booking's commercial terms and rederives every
// computed amount inside one transaction, so edits to the service charge,
// GST fields or date range immediately reprice the pending balance against
// the payments already on record.
func (s *bookingService) Update(ctx context.Context, booking *models.Booking) error {
	if err := validateBooking(booking); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	bookingRepo := s.bookingRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)

	existing, err := bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		return err
	}
	booking.BookingCode = existing.BookingCode

	sum, last, err := paymentRepo.SumByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	booking.AmountPaid = sum
	booking.LastPaymentDate = last
	RecalculateBooking(booking)

	if err := bookingRepo.Update(ctx, booking); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *bookingService) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, limit, offset)
}

func (s *bookingService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Booking, error) {
	return s.bookingRepo.ListByCustomer(ctx, customerID)
}

// AddPayment records a payment and refreshes the booking's paid, pending
// and last-payment fields from the payment ledger in the same transaction.
func (s *bookingService) AddPayment(ctx context.Context, payment *models.Payment) (*models.Booking, error) {
	if err := validatePayment(payment); err != nil {
		return nil, err
	}
	payment.ID = uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bookingRepo := s.bookingRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)

	booking, err := bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if err := paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := reconcileBooking(ctx, booking, bookingRepo, paymentRepo); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdatePayment edits a payment row. When the edit moves the payment to a
// different booking, both bookings are reconciled in the same transaction.
func (s *bookingService) UpdatePayment(ctx context.Context, payment *models.Payment) (*models.Booking, error) {
	if err := validatePayment(payment); err != nil {
		return nil, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bookingRepo := s.bookingRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)

	existing, err := paymentRepo.GetByID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	target, err := bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if err := paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	if err := reconcileBooking(ctx, target, bookingRepo, paymentRepo); err != nil {
		return nil, err
	}
	if existing.BookingID != payment.BookingID {
		source, err := bookingRepo.GetByID(ctx, existing.BookingID)
		if err != nil {
			return nil, err
		}
		if err := reconcileBooking(ctx, source, bookingRepo, paymentRepo); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *bookingService) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}

func validatePayment(payment *models.Payment) error {
	if !payment.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if payment.Method != nil && !models.ValidPaymentMethod(*payment.Method) {
		return ErrInvalidMethod
	}
	return nil
}

// reconcileBooking rereads the payment ledger and persists the derived
// fields. amount_paid is always SUM(payments), never an increment.
func reconcileBooking(ctx context.Context, booking *models.Booking, bookingRepo repositories.BookingRepository, paymentRepo repositories.PaymentRepository) error {
	sum, last, err := paymentRepo.SumByBooking(ctx, booking.ID)
	if err != nil {
		return err
	}
	booking.AmountPaid = sum
	booking.LastPaymentDate = last
	booking.PendingAmount = booking.TotalAmount.Sub(sum)
	return bookingRepo.Update(ctx, booking)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Drift is one booking whose stored amount_paid disagrees with its payment
// ledger. Produced by the nightly reconciliation audit.
type Drift struct {
	BookingID uuid.UUID
	Stored    decimal.Decimal
	Computed  decimal.Decimal
}

func (d Drift) String() string {
	return fmt.Sprintf("booking %s: stored amount_paid %s, ledger sum %s", d.BookingID, d.Stored, d.Computed)
}

// AuditPayments compares each booking's stored amount_paid against the sum
// of its payments and repairs any drift it finds.
func AuditPayments(ctx context.Context, bookingRepo repositories.BookingRepository, paymentRepo repositories.PaymentRepository) ([]Drift, error) {
	ids, err := bookingRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	var drifts []Drift
	for _, id := range ids {
		booking, err := bookingRepo.GetByID(ctx, id)
		if err != nil {
			return drifts, err
		}
		sum, last, err := paymentRepo.SumByBooking(ctx, id)
		if err != nil {
			return drifts, err
		}
		if booking.AmountPaid.Equal(sum) {
			continue
		}
		drifts = append(drifts, Drift{BookingID: id, Stored: booking.AmountPaid, Computed: sum})
		booking.AmountPaid = sum
		booking.LastPaymentDate = last
		booking.PendingAmount = booking.TotalAmount.Sub(sum)
		if err := bookingRepo.Update(ctx, booking); err != nil {
			return drifts, err
		}
	}
	return drifts, nil
}
