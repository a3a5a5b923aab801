package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type PurchaseRepository interface {
	WithTx(tx Database) PurchaseRepository
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	Update(ctx context.Context, purchase *models.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.Purchase, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
}

type purchaseRepo struct {
	db Database
}

func NewPurchaseRepo(db Database) PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) WithTx(tx Database) PurchaseRepository {
	return &purchaseRepo{db: tx}
}

const purchaseColumns = `id, bill_number, date, vendor_name, item_description, amount, gst_type,
	gst_percentage, gst_amount, total_amount, payment_status, notes, created_by, updated_by,
	created_at, updated_at`

func scanPurchase(row interface{ Scan(...any) error }) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := row.Scan(&p.ID, &p.BillNumber, &p.Date, &p.VendorName, &p.ItemDescription,
		&p.Amount, &p.GSTType, &p.GSTPercentage, &p.GSTAmount, &p.TotalAmount,
		&p.PaymentStatus, &p.Notes, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *purchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	query := `
		INSERT INTO purchases (id, bill_number, date, vendor_name, item_description, amount,
			gst_type, gst_percentage, gst_amount, total_amount, payment_status, notes,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, purchase.ID, purchase.BillNumber, purchase.Date,
		purchase.VendorName, purchase.ItemDescription, purchase.Amount, purchase.GSTType,
		purchase.GSTPercentage, purchase.GSTAmount, purchase.TotalAmount, purchase.PaymentStatus,
		purchase.Notes, purchase.CreatedBy, purchase.UpdatedBy)
	return err
}

func (r *purchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	return scanPurchase(r.db.QueryRow(ctx, query, id))
}

func (r *purchaseRepo) Update(ctx context.Context, purchase *models.Purchase) error {
	query := `
		UPDATE purchases
		SET date = $1, vendor_name = $2, item_description = $3, amount = $4, gst_type = $5,
			gst_percentage = $6, gst_amount = $7, total_amount = $8, payment_status = $9,
			notes = $10, updated_by = $11, updated_at = NOW()
		WHERE id = $12
	`
	_, err := r.db.Exec(ctx, query, purchase.Date, purchase.VendorName, purchase.ItemDescription,
		purchase.Amount, purchase.GSTType, purchase.GSTPercentage, purchase.GSTAmount,
		purchase.TotalAmount, purchase.PaymentStatus, purchase.Notes, purchase.UpdatedBy, purchase.ID)
	return err
}

func (r *purchaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	return err
}

func (r *purchaseRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases`
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

	var purchases []*models.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *purchaseRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT bill_number FROM purchases WHERE bill_number LIKE $1`, prefix)
}
