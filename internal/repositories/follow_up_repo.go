package repositories

import (
	"context"
	"time"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type FollowUpRepository interface {
	Create(ctx context.Context, fu *models.FollowUp) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FollowUp, error)
	Update(ctx context.Context, fu *models.FollowUp) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByB2CLead(ctx context.Context, enquiryID string) ([]*models.FollowUp, error)
	ListByB2BLead(ctx context.Context, leadID uuid.UUID) ([]*models.FollowUp, error)
	ListDueOn(ctx context.Context, date time.Time) ([]*models.FollowUp, error)
}

type followUpRepo struct {
	db Database
}

func NewFollowUpRepo(db Database) FollowUpRepository {
	return &followUpRepo{db: db}
}

const followUpColumns = `id, lead_type, b2c_lead_id, b2b_lead_id, follow_up_on, notes, outcome,
	next_follow_up_on, owner_id, created_at, updated_at`

func scanFollowUp(row interface{ Scan(...any) error }) (*models.FollowUp, error) {
	f := &models.FollowUp{}
	err := row.Scan(&f.ID, &f.LeadType, &f.B2CLeadID, &f.B2BLeadID, &f.FollowUpOn,
		&f.Notes, &f.Outcome, &f.NextFollowUpOn, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *followUpRepo) Create(ctx context.Context, fu *models.FollowUp) error {
	query := `
		INSERT INTO follow_ups (id, lead_type, b2c_lead_id, b2b_lead_id, follow_up_on, notes,
			outcome, next_follow_up_on, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, fu.ID, fu.LeadType, fu.B2CLeadID, fu.B2BLeadID,
		fu.FollowUpOn, fu.Notes, fu.Outcome, fu.NextFollowUpOn, fu.OwnerID)
	return err
}

func (r *followUpRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE id = $1`
	return scanFollowUp(r.db.QueryRow(ctx, query, id))
}

func (r *followUpRepo) Update(ctx context.Context, fu *models.FollowUp) error {
	query := `
		UPDATE follow_ups
		SET follow_up_on = $1, notes = $2, outcome = $3, next_follow_up_on = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, fu.FollowUpOn, fu.Notes, fu.Outcome, fu.NextFollowUpOn, fu.ID)
	return err
}

func (r *followUpRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	return err
}

func (r *followUpRepo) ListByB2CLead(ctx context.Context, enquiryID string) ([]*models.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE b2c_lead_id = $1 ORDER BY follow_up_on DESC`
	return r.queryFollowUps(ctx, query, enquiryID)
}

func (r *followUpRepo) ListByB2BLead(ctx context.Context, leadID uuid.UUID) ([]*models.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE b2b_lead_id = $1 ORDER BY follow_up_on DESC`
	return r.queryFollowUps(ctx, query, leadID)
}

// ListDueOn returns follow-ups whose next contact falls on the given day.
// Used by the dashboard's "due today" panel.
func (r *followUpRepo) ListDueOn(ctx context.Context, date time.Time) ([]*models.FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM follow_ups WHERE next_follow_up_on::date = $1::date ORDER BY next_follow_up_on ASC`
	return r.queryFollowUps(ctx, query, date)
}

func (r *followUpRepo) queryFollowUps(ctx context.Context, query string, args ...any) ([]*models.FollowUp, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var followUps []*models.FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		followUps = append(followUps, f)
	}
	return followUps, rows.Err()
}
