package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type SaleRepository interface {
	WithTx(tx Database) SaleRepository
	Create(ctx context.Context, sale *models.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	Update(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.Sale, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) WithTx(tx Database) SaleRepository {
	return &saleRepo{db: tx}
}

const saleColumns = `id, invoice_number, date, customer_name, customer_id, product_service,
	amount, gst_type, gst_percentage, gst_amount, total_amount, payment_status, notes,
	created_by, updated_by, created_at, updated_at`

func scanSale(row interface{ Scan(...any) error }) (*models.Sale, error) {
	s := &models.Sale{}
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.Date, &s.CustomerName, &s.CustomerID,
		&s.ProductService, &s.Amount, &s.GSTType, &s.GSTPercentage, &s.GSTAmount,
		&s.TotalAmount, &s.PaymentStatus, &s.Notes, &s.CreatedBy, &s.UpdatedBy,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *saleRepo) Create(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (id, invoice_number, date, customer_name, customer_id, product_service,
			amount, gst_type, gst_percentage, gst_amount, total_amount, payment_status, notes,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, sale.ID, sale.InvoiceNumber, sale.Date, sale.CustomerName,
		sale.CustomerID, sale.ProductService, sale.Amount, sale.GSTType, sale.GSTPercentage,
		sale.GSTAmount, sale.TotalAmount, sale.PaymentStatus, sale.Notes,
		sale.CreatedBy, sale.UpdatedBy)
	return err
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.db.QueryRow(ctx, query, id))
}

func (r *saleRepo) Update(ctx context.Context, sale *models.Sale) error {
	query := `
		UPDATE sales
		SET date = $1, customer_name = $2, customer_id = $3, product_service = $4, amount = $5,
			gst_type = $6, gst_percentage = $7, gst_amount = $8, total_amount = $9,
			payment_status = $10, notes = $11, updated_by = $12, updated_at = NOW()
		WHERE id = $13
	`
	_, err := r.db.Exec(ctx, query, sale.Date, sale.CustomerName, sale.CustomerID,
		sale.ProductService, sale.Amount, sale.GSTType, sale.GSTPercentage, sale.GSTAmount,
		sale.TotalAmount, sale.PaymentStatus, sale.Notes, sale.UpdatedBy, sale.ID)
	return err
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	return err
}

func (r *saleRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	args := []any{}
	if status != "" {
		query += ` WHERE payment_status = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY date DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *saleRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT invoice_number FROM sales WHERE invoice_number LIKE $1`, prefix)
}
