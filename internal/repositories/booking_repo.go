package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type BookingRepository interface {
	WithTx(tx Database) BookingRepository
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByCode(ctx context.Context, code string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, limit, offset int) ([]*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Booking, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type bookingRepo struct {
	db Database
}

func NewBookingRepo(db Database) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) WithTx(tx Database) BookingRepository {
	return &bookingRepo{db: tx}
}

const bookingColumns = `id, booking_code, customer_id, customer_name, customer_mob, services,
	charge_type, start_date, end_date, shift_hours, service_charge, other_expanse,
	gst_type, gst_percentage, gst_value, total_amount, amount_paid, pending_amount,
	last_payment_date, employee_assigned_id, created_by, updated_by, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(&b.ID, &b.BookingCode, &b.CustomerID, &b.CustomerName, &b.CustomerMob,
		&b.Services, &b.ChargeType, &b.StartDate, &b.EndDate, &b.ShiftHours,
		&b.ServiceCharge, &b.OtherExpanse, &b.GSTType, &b.GSTPercentage, &b.GSTValue,
		&b.TotalAmount, &b.AmountPaid, &b.PendingAmount, &b.LastPaymentDate,
		&b.EmployeeAssigned, &b.CreatedBy, &b.UpdatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_code, customer_id, customer_name, customer_mob, services,
			charge_type, start_date, end_date, shift_hours, service_charge, other_expanse,
			gst_type, gst_percentage, gst_value, total_amount, amount_paid, pending_amount,
			last_payment_date, employee_assigned_id, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, booking.ID, booking.BookingCode, booking.CustomerID,
		booking.CustomerName, booking.CustomerMob, booking.Services, booking.ChargeType,
		booking.StartDate, booking.EndDate, booking.ShiftHours, booking.ServiceCharge,
		booking.OtherExpanse, booking.GSTType, booking.GSTPercentage, booking.GSTValue,
		booking.TotalAmount, booking.AmountPaid, booking.PendingAmount, booking.LastPaymentDate,
		booking.EmployeeAssigned, booking.CreatedBy, booking.UpdatedBy)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, query, id))
}

func (r *bookingRepo) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_code = $1`
	return scanBooking(r.db.QueryRow(ctx, query, code))
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET customer_id = $1, customer_name = $2, customer_mob = $3, services = $4,
			charge_type = $5, start_date = $6, end_date = $7, shift_hours = $8,
			service_charge = $9, other_expanse = $10, gst_type = $11, gst_percentage = $12,
			gst_value = $13, total_amount = $14, amount_paid = $15, pending_amount = $16,
			last_payment_date = $17, employee_assigned_id = $18, updated_by = $19, updated_at = NOW()
		WHERE id = $20
	`
	_, err := r.db.Exec(ctx, query, booking.CustomerID, booking.CustomerName, booking.CustomerMob,
		booking.Services, booking.ChargeType, booking.StartDate, booking.EndDate, booking.ShiftHours,
		booking.ServiceCharge, booking.OtherExpanse, booking.GSTType, booking.GSTPercentage,
		booking.GSTValue, booking.TotalAmount, booking.AmountPaid, booking.PendingAmount,
		booking.LastPaymentDate, booking.EmployeeAssigned, booking.UpdatedBy, booking.ID)
	return err
}

func (r *bookingRepo) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT booking_code FROM bookings WHERE booking_code LIKE $1`, prefix)
}

func (r *bookingRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM bookings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// listCodes runs a single-column code query shared by every repository that
// feeds the sequential code generator.
func listCodes(ctx context.Context, db Database, query, prefix string) ([]string, error) {
	rows, err := db.Query(ctx, query, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
