package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMadeRepository interface {
	WithTx(tx Database) PaymentMadeRepository
	Create(ctx context.Context, p *models.PaymentMade) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMade, error)
	Update(ctx context.Context, p *models.PaymentMade) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.PaymentMade, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	SumByPurchase(ctx context.Context, purchaseID uuid.UUID) (decimal.Decimal, error)
}

type paymentMadeRepo struct {
	db Database
}

func NewPaymentMadeRepo(db Database) PaymentMadeRepository {
	return &paymentMadeRepo{db: db}
}

func (r *paymentMadeRepo) WithTx(tx Database) PaymentMadeRepository {
	return &paymentMadeRepo{db: tx}
}

const paymentMadeColumns = `id, reference_number, date, payee_name, amount, payment_method,
	bill_number, purchase_id, category, tds_percentage, tds_amount, net_amount, remarks,
	created_by, updated_by, created_at, updated_at`

func scanPaymentMade(row interface{ Scan(...any) error }) (*models.PaymentMade, error) {
	p := &models.PaymentMade{}
	err := row.Scan(&p.ID, &p.ReferenceNumber, &p.Date, &p.PayeeName, &p.Amount,
		&p.PaymentMethod, &p.BillNumber, &p.PurchaseID, &p.Category, &p.TDSPercentage,
		&p.TDSAmount, &p.NetAmount, &p.Remarks, &p.CreatedBy, &p.UpdatedBy,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentMadeRepo) Create(ctx context.Context, p *models.PaymentMade) error {
	query := `
		INSERT INTO payments_made (id, reference_number, date, payee_name, amount, payment_method,
			bill_number, purchase_id, category, tds_percentage, tds_amount, net_amount, remarks,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, p.ID, p.ReferenceNumber, p.Date, p.PayeeName, p.Amount,
		p.PaymentMethod, p.BillNumber, p.PurchaseID, p.Category, p.TDSPercentage, p.TDSAmount,
		p.NetAmount, p.Remarks, p.CreatedBy, p.UpdatedBy)
	return err
}

func (r *paymentMadeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMade, error) {
	query := `SELECT ` + paymentMadeColumns + ` FROM payments_made WHERE id = $1`
	return scanPaymentMade(r.db.QueryRow(ctx, query, id))
}

func (r *paymentMadeRepo) Update(ctx context.Context, p *models.PaymentMade) error {
	query := `
		UPDATE payments_made
		SET date = $1, payee_name = $2, amount = $3, payment_method = $4, bill_number = $5,
			purchase_id = $6, category = $7, tds_percentage = $8, tds_amount = $9,
			net_amount = $10, remarks = $11, updated_by = $12, updated_at = NOW()
		WHERE id = $13
	`
	_, err := r.db.Exec(ctx, query, p.Date, p.PayeeName, p.Amount, p.PaymentMethod,
		p.BillNumber, p.PurchaseID, p.Category, p.TDSPercentage, p.TDSAmount, p.NetAmount,
		p.Remarks, p.UpdatedBy, p.ID)
	return err
}

func (r *paymentMadeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments_made WHERE id = $1`, id)
	return err
}

func (r *paymentMadeRepo) List(ctx context.Context, limit, offset int) ([]*models.PaymentMade, error) {
	query := `SELECT ` + paymentMadeColumns + ` FROM payments_made ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentMade
	for rows.Next() {
		p, err := scanPaymentMade(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentMadeRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT reference_number FROM payments_made WHERE reference_number LIKE $1`, prefix)
}

func (r *paymentMadeRepo) SumByPurchase(ctx context.Context, purchaseID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments_made WHERE purchase_id = $1`
	err := r.db.QueryRow(ctx, query, purchaseID).Scan(&sum)
	return sum, err
}
