package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentReceivedRepository interface {
	WithTx(tx Database) PaymentReceivedRepository
	Create(ctx context.Context, p *models.PaymentReceived) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentReceived, error)
	GetBySale(ctx context.Context, saleID uuid.UUID) (*models.PaymentReceived, error)
	Update(ctx context.Context, p *models.PaymentReceived) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySale(ctx context.Context, saleID uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.PaymentReceived, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error)
}

type paymentReceivedRepo struct {
	db Database
}

func NewPaymentReceivedRepo(db Database) PaymentReceivedRepository {
	return &paymentReceivedRepo{db: db}
}

func (r *paymentReceivedRepo) WithTx(tx Database) PaymentReceivedRepository {
	return &paymentReceivedRepo{db: tx}
}

const paymentReceivedColumns = `id, reference_number, date, customer_name, customer_id, amount,
	payment_method, invoice_number, sale_id, tds_percentage, tds_amount, net_amount, remarks,
	created_by, updated_by, created_at, updated_at`

func scanPaymentReceived(row interface{ Scan(...any) error }) (*models.PaymentReceived, error) {
	p := &models.PaymentReceived{}
	err := row.Scan(&p.ID, &p.ReferenceNumber, &p.Date, &p.CustomerName, &p.CustomerID,
		&p.Amount, &p.PaymentMethod, &p.InvoiceNumber, &p.SaleID, &p.TDSPercentage,
		&p.TDSAmount, &p.NetAmount, &p.Remarks, &p.CreatedBy, &p.UpdatedBy,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentReceivedRepo) Create(ctx context.Context, p *models.PaymentReceived) error {
	query := `
		INSERT INTO payments_received (id, reference_number, date, customer_name, customer_id,
			amount, payment_method, invoice_number, sale_id, tds_percentage, tds_amount,
			net_amount, remarks, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.ReferenceNumber, p.Date, p.CustomerName,
		p.CustomerID, p.Amount, p.PaymentMethod, p.InvoiceNumber, p.SaleID, p.TDSPercentage,
		p.TDSAmount, p.NetAmount, p.Remarks, p.CreatedBy, p.UpdatedBy)
	return err
}

func (r *paymentReceivedRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentReceived, error) {
	query := `SELECT ` + paymentReceivedColumns + ` FROM payments_received WHERE id = $1`
	return scanPaymentReceived(r.db.QueryRow(ctx, query, id))
}

// GetBySale returns the auto-managed settlement row for a sale, if any.
func (r *paymentReceivedRepo) GetBySale(ctx context.Context, saleID uuid.UUID) (*models.PaymentReceived, error) {
	query := `SELECT ` + paymentReceivedColumns + ` FROM payments_received WHERE sale_id = $1 ORDER BY created_at ASC LIMIT 1`
	return scanPaymentReceived(r.db.QueryRow(ctx, query, saleID))
}

func (r *paymentReceivedRepo) Update(ctx context.Context, p *models.PaymentReceived) error {
	query := `
		UPDATE payments_received
		SET date = $1, customer_name = $2, customer_id = $3, amount = $4, payment_method = $5,
			invoice_number = $6, sale_id = $7, tds_percentage = $8, tds_amount = $9,
			net_amount = $10, remarks = $11, updated_by = $12, updated_at = NOW()
		WHERE id = $13
	`
	_, err := r.db.Exec(ctx, query, p.Date, p.CustomerName, p.CustomerID, p.Amount,
		p.PaymentMethod, p.InvoiceNumber, p.SaleID, p.TDSPercentage, p.TDSAmount,
		p.NetAmount, p.Remarks, p.UpdatedBy, p.ID)
	return err
}

func (r *paymentReceivedRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments_received WHERE id = $1`, id)
	return err
}

func (r *paymentReceivedRepo) DeleteBySale(ctx context.Context, saleID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments_received WHERE sale_id = $1`, saleID)
	return err
}

func (r *paymentReceivedRepo) List(ctx context.Context, limit, offset int) ([]*models.PaymentReceived, error) {
	query := `SELECT ` + paymentReceivedColumns + ` FROM payments_received ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentReceived
	for rows.Next() {
		p, err := scanPaymentReceived(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentReceivedRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT reference_number FROM payments_received WHERE reference_number LIKE $1`, prefix)
}

func (r *paymentReceivedRepo) SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments_received WHERE sale_id = $1`
	err := r.db.QueryRow(ctx, query, saleID).Scan(&sum)
	return sum, err
}
