package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type B2CLeadRepository interface {
	WithTx(tx Database) B2CLeadRepository
	Create(ctx context.Context, lead *models.B2CLead) error
	GetByEnquiryID(ctx context.Context, enquiryID string) (*models.B2CLead, error)
	Update(ctx context.Context, lead *models.B2CLead) error
	Delete(ctx context.Context, enquiryID string) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.B2CLead, error)
	ListAll(ctx context.Context) ([]*models.B2CLead, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	MarkConverted(ctx context.Context, enquiryID string, customerID uuid.UUID) error
}

type b2cLeadRepo struct {
	db Database
}

func NewB2CLeadRepo(db Database) B2CLeadRepository {
	return &b2cLeadRepo{db: db}
}

func (r *b2cLeadRepo) WithTx(tx Database) B2CLeadRepository {
	return &b2cLeadRepo{db: tx}
}

const b2cLeadColumns = `enquiry_id, customer_name, contact_no, email, enquiry_date, source,
	services, referred_by, status, comment, customer_id, created_by, updated_by, created_at, updated_at`

func scanB2CLead(row interface{ Scan(...any) error }) (*models.B2CLead, error) {
	l := &models.B2CLead{}
	err := row.Scan(&l.EnquiryID, &l.CustomerName, &l.ContactNo, &l.Email, &l.EnquiryDate,
		&l.Source, &l.Services, &l.ReferredBy, &l.Status, &l.Comment, &l.CustomerID,
		&l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *b2cLeadRepo) Create(ctx context.Context, lead *models.B2CLead) error {
	query := `
		INSERT INTO b2c_leads (enquiry_id, customer_name, contact_no, email, enquiry_date, source,
			services, referred_by, status, comment, customer_id, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, lead.EnquiryID, lead.CustomerName, lead.ContactNo,
		lead.Email, lead.EnquiryDate, lead.Source, lead.Services, lead.ReferredBy,
		lead.Status, lead.Comment, lead.CustomerID, lead.CreatedBy, lead.UpdatedBy)
	return err
}

func (r *b2cLeadRepo) GetByEnquiryID(ctx context.Context, enquiryID string) (*models.B2CLead, error) {
	query := `SELECT ` + b2cLeadColumns + ` FROM b2c_leads WHERE enquiry_id = $1`
	return scanB2CLead(r.db.QueryRow(ctx, query, enquiryID))
}

func (r *b2cLeadRepo) Update(ctx context.Context, lead *models.B2CLead) error {
	query := `
		UPDATE b2c_leads
		SET customer_name = $1, contact_no = $2, email = $3, enquiry_date = $4, source = $5,
			services = $6, referred_by = $7, status = $8, comment = $9, customer_id = $10,
			updated_by = $11, updated_at = NOW()
		WHERE enquiry_id = $12
	`
	_, err := r.db.Exec(ctx, query, lead.CustomerName, lead.ContactNo, lead.Email,
		lead.EnquiryDate, lead.Source, lead.Services, lead.ReferredBy, lead.Status,
		lead.Comment, lead.CustomerID, lead.UpdatedBy, lead.EnquiryID)
	return err
}

func (r *b2cLeadRepo) Delete(ctx context.Context, enquiryID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM b2c_leads WHERE enquiry_id = $1`, enquiryID)
	return err
}

func (r *b2cLeadRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.B2CLead, error) {
	query := `SELECT ` + b2cLeadColumns + ` FROM b2c_leads`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY enquiry_date DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY enquiry_date DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	return r.queryLeads(ctx, query, args...)
}

func (r *b2cLeadRepo) ListAll(ctx context.Context) ([]*models.B2CLead, error) {
	query := `SELECT ` + b2cLeadColumns + ` FROM b2c_leads ORDER BY enquiry_date ASC`
	return r.queryLeads(ctx, query)
}

func (r *b2cLeadRepo) queryLeads(ctx context.Context, query string, args ...any) ([]*models.B2CLead, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.B2CLead
	for rows.Next() {
		l, err := scanB2CLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *b2cLeadRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT enquiry_id FROM b2c_leads WHERE enquiry_id LIKE $1`, prefix)
}

func (r *b2cLeadRepo) MarkConverted(ctx context.Context, enquiryID string, customerID uuid.UUID) error {
	query := `UPDATE b2c_leads SET status = $1, customer_id = $2, updated_at = NOW() WHERE enquiry_id = $3`
	_, err := r.db.Exec(ctx, query, models.LeadStatusConverted, customerID, enquiryID)
	return err
}
