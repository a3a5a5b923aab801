package services

import (
	"context"
	"errors"

	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

var ErrServiceName = errors.New("service name is required")

// CatalogService manages the catalog of offered services. Entries are never
// deleted; bookings carry their names as free text and would dangle.
type CatalogService interface {
	Create(ctx context.Context, service *models.Service) error
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	List(ctx context.Context) ([]*models.Service, error)
}

type catalogService struct {
	repo repositories.ServiceRepository
}

func NewCatalogService(repo repositories.ServiceRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Create(ctx context.Context, service *models.Service) error {
	if service.Name == "" {
		return ErrServiceName
	}
	service.ID = uuid.New()
	return s.repo.Create(ctx, service)
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalogService) Update(ctx context.Context, service *models.Service) error {
	if service.Name == "" {
		return ErrServiceName
	}
	if _, err := s.repo.GetByID(ctx, service.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, service)
}

func (s *catalogService) List(ctx context.Context) ([]*models.Service, error) {
	return s.repo.List(ctx)
}
