package repositories

import (
	"context"
	"time"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CampRepository interface {
	Create(ctx context.Context, camp *models.Camp) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Camp, error)
	Update(ctx context.Context, camp *models.Camp) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Camp, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Camp, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	SumPayments(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type campRepo struct {
	db Database
}

func NewCampRepo(db Database) CampRepository {
	return &campRepo{db: db}
}

const campColumns = `id, camp_id, staff_id, camp_date, camp_location, referred_by, patient_name,
	age, gender, test_done, package, diagnostic_partner, phone_no, payment, created_by,
	updated_by, created_at, updated_at`

func scanCamp(row interface{ Scan(...any) error }) (*models.Camp, error) {
	c := &models.Camp{}
	err := row.Scan(&c.ID, &c.CampID, &c.StaffID, &c.CampDate, &c.CampLocation, &c.ReferredBy,
		&c.PatientName, &c.Age, &c.Gender, &c.TestDone, &c.Package, &c.DiagnosticPartner,
		&c.PhoneNo, &c.Payment, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *campRepo) Create(ctx context.Context, camp *models.Camp) error {
	query := `
		INSERT INTO camps (id, camp_id, staff_id, camp_date, camp_location, referred_by,
			patient_name, age, gender, test_done, package, diagnostic_partner, phone_no, payment,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, camp.ID, camp.CampID, camp.StaffID, camp.CampDate,
		camp.CampLocation, camp.ReferredBy, camp.PatientName, camp.Age, camp.Gender,
		camp.TestDone, camp.Package, camp.DiagnosticPartner, camp.PhoneNo, camp.Payment,
		camp.CreatedBy, camp.UpdatedBy)
	return err
}

func (r *campRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Camp, error) {
	query := `SELECT ` + campColumns + ` FROM camps WHERE id = $1`
	return scanCamp(r.db.QueryRow(ctx, query, id))
}

func (r *campRepo) Update(ctx context.Context, camp *models.Camp) error {
	query := `
		UPDATE camps
		SET staff_id = $1, camp_date = $2, camp_location = $3, referred_by = $4, patient_name = $5,
			age = $6, gender = $7, test_done = $8, package = $9, diagnostic_partner = $10,
			phone_no = $11, payment = $12, updated_by = $13, updated_at = NOW()
		WHERE id = $14
	`
	_, err := r.db.Exec(ctx, query, camp.StaffID, camp.CampDate, camp.CampLocation,
		camp.ReferredBy, camp.PatientName, camp.Age, camp.Gender, camp.TestDone, camp.Package,
		camp.DiagnosticPartner, camp.PhoneNo, camp.Payment, camp.UpdatedBy, camp.ID)
	return err
}

func (r *campRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM camps WHERE id = $1`, id)
	return err
}

func (r *campRepo) List(ctx context.Context, limit, offset int) ([]*models.Camp, error) {
	query := `SELECT ` + campColumns + ` FROM camps ORDER BY camp_date DESC LIMIT $1 OFFSET $2`
	return r.queryCamps(ctx, query, limit, offset)
}

func (r *campRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Camp, error) {
	query := `SELECT ` + campColumns + ` FROM camps WHERE camp_date >= $1 AND camp_date <= $2 ORDER BY camp_date ASC`
	return r.queryCamps(ctx, query, from, to)
}

func (r *campRepo) queryCamps(ctx context.Context, query string, args ...any) ([]*models.Camp, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var camps []*models.Camp
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, err
		}
		camps = append(camps, c)
	}
	return camps, rows.Err()
}

func (r *campRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT camp_id FROM camps WHERE camp_id LIKE $1`, prefix)
}

func (r *campRepo) SumPayments(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(payment), 0) FROM camps WHERE camp_date >= $1 AND camp_date <= $2`
	err := r.db.QueryRow(ctx, query, from, to).Scan(&sum)
	return sum, err
}
