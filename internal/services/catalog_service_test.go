package services

import (
	"context"
	"testing"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) List(ctx context.Context) ([]*models.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Service), args.Error(1)
}

func TestCatalogCreate_RequiresName(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewCatalogService(repo)

	err := svc.Create(context.Background(), &models.Service{})
	assert.ErrorIs(t, err, ErrServiceName)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogCreate_AssignsID(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewCatalogService(repo)
	entry := &models.Service{Name: "Nursing care"}

	repo.On("Create", mock.Anything, entry).Return(nil)

	err := svc.Create(context.Background(), entry)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestCatalogUpdate_MissingEntry(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewCatalogService(repo)
	entry := &models.Service{ID: uuid.New(), Name: "Physiotherapy"}

	repo.On("GetByID", mock.Anything, entry.ID).Return(nil, pgx.ErrNoRows)

	err := svc.Update(context.Background(), entry)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
