package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type ChannelPartnerRepository interface {
	Create(ctx context.Context, partner *models.ChannelPartner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ChannelPartner, error)
	Update(ctx context.Context, partner *models.ChannelPartner) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.ChannelPartner, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	CountCustomers(ctx context.Context, partnerID uuid.UUID) (int, error)
}

type channelPartnerRepo struct {
	db Database
}

func NewChannelPartnerRepo(db Database) ChannelPartnerRepository {
	return &channelPartnerRepo{db: db}
}

const partnerColumns = `id, partner_code, name, contact_no, email, created_date, notes,
	created_by, updated_by, created_at, updated_at`

func scanPartner(row interface{ Scan(...any) error }) (*models.ChannelPartner, error) {
	p := &models.ChannelPartner{}
	err := row.Scan(&p.ID, &p.PartnerCode, &p.Name, &p.ContactNo, &p.Email, &p.CreatedDate,
		&p.Notes, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *channelPartnerRepo) Create(ctx context.Context, partner *models.ChannelPartner) error {
	query := `
		INSERT INTO channel_partners (id, partner_code, name, contact_no, email, created_date,
			notes, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, partner.ID, partner.PartnerCode, partner.Name,
		partner.ContactNo, partner.Email, partner.CreatedDate, partner.Notes,
		partner.CreatedBy, partner.UpdatedBy)
	return err
}

func (r *channelPartnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ChannelPartner, error) {
	query := `SELECT ` + partnerColumns + ` FROM channel_partners WHERE id = $1`
	return scanPartner(r.db.QueryRow(ctx, query, id))
}

func (r *channelPartnerRepo) Update(ctx context.Context, partner *models.ChannelPartner) error {
	query := `
		UPDATE channel_partners
		SET name = $1, contact_no = $2, email = $3, created_date = $4, notes = $5,
			updated_by = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, partner.Name, partner.ContactNo, partner.Email,
		partner.CreatedDate, partner.Notes, partner.UpdatedBy, partner.ID)
	return err
}

func (r *channelPartnerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM channel_partners WHERE id = $1`, id)
	return err
}

func (r *channelPartnerRepo) List(ctx context.Context, limit, offset int) ([]*models.ChannelPartner, error) {
	query := `SELECT ` + partnerColumns + ` FROM channel_partners ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []*models.ChannelPartner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (r *channelPartnerRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT partner_code FROM channel_partners WHERE partner_code LIKE $1`, prefix)
}

// CountCustomers reports how many customers a partner has referred.
func (r *channelPartnerRepo) CountCustomers(ctx context.Context, partnerID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE channel_partner_id = $1`, partnerID).Scan(&count)
	return count, err
}
