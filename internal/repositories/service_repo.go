package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	List(ctx context.Context) ([]*models.Service, error)
}

type serviceRepo struct {
	db Database
}

func NewServiceRepo(db Database) ServiceRepository {
	return &serviceRepo{db: db}
}

const serviceColumns = `id, name, description, created_by, updated_by, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (*models.Service, error) {
	s := &models.Service{}
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedBy, &s.UpdatedBy,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *serviceRepo) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (id, name, description, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, service.ID, service.Name, service.Description,
		service.CreatedBy, service.UpdatedBy)
	return err
}

func (r *serviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	return scanService(r.db.QueryRow(ctx, query, id))
}

func (r *serviceRepo) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, service.Name, service.Description, service.UpdatedBy, service.ID)
	return err
}

func (r *serviceRepo) List(ctx context.Context) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
