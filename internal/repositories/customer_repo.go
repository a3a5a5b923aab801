package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type CustomerRepository interface {
	WithTx(tx Database) CustomerRepository
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
}

type customerRepo struct {
	db Database
}

func NewCustomerRepo(db Database) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) WithTx(tx Database) CustomerRepository {
	return &customerRepo{db: tx}
}

const customerColumns = `id, customer_code, customer_name, contact_no, email, services,
	channel_partner_id, created_by, updated_by, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(&c.ID, &c.CustomerCode, &c.CustomerName, &c.ContactNo, &c.Email,
		&c.Services, &c.ChannelPartnerID, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, customer_code, customer_name, contact_no, email, services,
			channel_partner_id, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.CustomerCode, customer.CustomerName,
		customer.ContactNo, customer.Email, customer.Services, customer.ChannelPartnerID,
		customer.CreatedBy, customer.UpdatedBy)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRow(ctx, query, id))
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET customer_name = $1, contact_no = $2, email = $3, services = $4,
			channel_partner_id = $5, updated_by = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, customer.CustomerName, customer.ContactNo, customer.Email,
		customer.Services, customer.ChannelPartnerID, customer.UpdatedBy, customer.ID)
	return err
}

func (r *customerRepo) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT customer_code FROM customers WHERE customer_code LIKE $1`, prefix)
}
