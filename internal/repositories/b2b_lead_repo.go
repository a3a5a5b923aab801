package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type B2BLeadRepository interface {
	Create(ctx context.Context, lead *models.B2BLead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.B2BLead, error)
	Update(ctx context.Context, lead *models.B2BLead) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.B2BLead, error)
	ListAll(ctx context.Context) ([]*models.B2BLead, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
}

type b2bLeadRepo struct {
	db Database
}

func NewB2BLeadRepo(db Database) B2BLeadRepository {
	return &b2bLeadRepo{db: db}
}

const b2bLeadColumns = `id, sr_no, spoc, date, organization_name, organization_email, location,
	type_of_leads, org_poc_name_and_role, employee_size, employee_wellness_program,
	budget_of_wellness_program, last_wellness_activity_done, status, created_by, updated_by,
	created_at, updated_at`

func scanB2BLead(row interface{ Scan(...any) error }) (*models.B2BLead, error) {
	l := &models.B2BLead{}
	err := row.Scan(&l.ID, &l.SrNo, &l.Spoc, &l.Date, &l.OrganizationName, &l.OrganizationEmail,
		&l.Location, &l.TypeOfLeads, &l.OrgPocNameAndRole, &l.EmployeeSize, &l.WellnessProgram,
		&l.WellnessBudget, &l.LastWellnessActivity, &l.Status, &l.CreatedBy, &l.UpdatedBy,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *b2bLeadRepo) Create(ctx context.Context, lead *models.B2BLead) error {
	query := `
		INSERT INTO b2b_leads (id, sr_no, spoc, date, organization_name, organization_email, location,
			type_of_leads, org_poc_name_and_role, employee_size, employee_wellness_program,
			budget_of_wellness_program, last_wellness_activity_done, status, created_by, updated_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, lead.ID, lead.SrNo, lead.Spoc, lead.Date,
		lead.OrganizationName, lead.OrganizationEmail, lead.Location, lead.TypeOfLeads,
		lead.OrgPocNameAndRole, lead.EmployeeSize, lead.WellnessProgram, lead.WellnessBudget,
		lead.LastWellnessActivity, lead.Status, lead.CreatedBy, lead.UpdatedBy)
	return err
}

func (r *b2bLeadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.B2BLead, error) {
	query := `SELECT ` + b2bLeadColumns + ` FROM b2b_leads WHERE id = $1`
	return scanB2BLead(r.db.QueryRow(ctx, query, id))
}

func (r *b2bLeadRepo) Update(ctx context.Context, lead *models.B2BLead) error {
	query := `
		UPDATE b2b_leads
		SET spoc = $1, date = $2, organization_name = $3, organization_email = $4, location = $5,
			type_of_leads = $6, org_poc_name_and_role = $7, employee_size = $8,
			employee_wellness_program = $9, budget_of_wellness_program = $10,
			last_wellness_activity_done = $11, status = $12, updated_by = $13, updated_at = NOW()
		WHERE id = $14
	`
	_, err := r.db.Exec(ctx, query, lead.Spoc, lead.Date, lead.OrganizationName,
		lead.OrganizationEmail, lead.Location, lead.TypeOfLeads, lead.OrgPocNameAndRole,
		lead.EmployeeSize, lead.WellnessProgram, lead.WellnessBudget, lead.LastWellnessActivity,
		lead.Status, lead.UpdatedBy, lead.ID)
	return err
}

func (r *b2bLeadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM b2b_leads WHERE id = $1`, id)
	return err
}

func (r *b2bLeadRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.B2BLead, error) {
	query := `SELECT ` + b2bLeadColumns + ` FROM b2b_leads`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	return r.queryLeads(ctx, query, args...)
}

func (r *b2bLeadRepo) ListAll(ctx context.Context) ([]*models.B2BLead, error) {
	query := `SELECT ` + b2bLeadColumns + ` FROM b2b_leads ORDER BY created_at ASC`
	return r.queryLeads(ctx, query)
}

func (r *b2bLeadRepo) queryLeads(ctx context.Context, query string, args ...any) ([]*models.B2BLead, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.B2BLead
	for rows.Next() {
		l, err := scanB2BLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *b2bLeadRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT sr_no FROM b2b_leads WHERE sr_no LIKE $1`, prefix)
}
