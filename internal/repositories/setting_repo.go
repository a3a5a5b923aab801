package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type SettingRepository interface {
	Create(ctx context.Context, setting *models.Setting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByGroup(ctx context.Context, group string) ([]*models.Setting, error)
	ListGroups(ctx context.Context) ([]string, error)
}

type settingRepo struct {
	db Database
}

func NewSettingRepo(db Database) SettingRepository {
	return &settingRepo{db: db}
}

const settingColumns = `id, setting_group, setting_key, setting_value, sort_order, is_active,
	created_by, updated_by, created_at, updated_at`

func scanSetting(row interface{ Scan(...any) error }) (*models.Setting, error) {
	s := &models.Setting{}
	err := row.Scan(&s.ID, &s.Group, &s.Key, &s.Value, &s.SortOrder, &s.IsActive,
		&s.CreatedBy, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *settingRepo) Create(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (id, setting_group, setting_key, setting_value, sort_order,
			is_active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, setting.ID, setting.Group, setting.Key, setting.Value,
		setting.SortOrder, setting.IsActive, setting.CreatedBy, setting.UpdatedBy)
	return err
}

func (r *settingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Setting, error) {
	query := `SELECT ` + settingColumns + ` FROM settings WHERE id = $1`
	return scanSetting(r.db.QueryRow(ctx, query, id))
}

func (r *settingRepo) Update(ctx context.Context, setting *models.Setting) error {
	query := `
		UPDATE settings
		SET setting_value = $1, sort_order = $2, is_active = $3, updated_by = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, setting.Value, setting.SortOrder, setting.IsActive,
		setting.UpdatedBy, setting.ID)
	return err
}

func (r *settingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM settings WHERE id = $1`, id)
	return err
}

func (r *settingRepo) ListByGroup(ctx context.Context, group string) ([]*models.Setting, error) {
	query := `SELECT ` + settingColumns + ` FROM settings WHERE setting_group = $1 AND is_active = true ORDER BY sort_order ASC, setting_key ASC`
	rows, err := r.db.Query(ctx, query, group)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *settingRepo) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT setting_group FROM settings ORDER BY setting_group ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
