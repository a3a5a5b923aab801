package services

import (
	"context"

	"caretrack/internal/codegen"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

type EmployeeService interface {
	Create(ctx context.Context, employee *models.Employee) error
	Get(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Employee, error)
}

type employeeService struct {
	repo repositories.EmployeeRepository
}

func NewEmployeeService(repo repositories.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) Create(ctx context.Context, employee *models.Employee) error {
	employee.ID = uuid.New()
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.repo.ListCodes(ctx, codegen.EmployeePrefix)
		if err != nil {
			return err
		}
		employee.EmployeeCode = codegen.Next(codegen.EmployeePrefix, codegen.EntityWidth, codes)
		err = s.repo.Create(ctx, employee)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *employeeService) Update(ctx context.Context, employee *models.Employee) error {
	existing, err := s.repo.GetByID(ctx, employee.ID)
	if err != nil {
		return err
	}
	employee.EmployeeCode = existing.EmployeeCode
	// Object keys are managed by the upload endpoints; a plain edit keeps
	// the stored files.
	if employee.PhotoKey == nil {
		employee.PhotoKey = existing.PhotoKey
	}
	if employee.DocumentKey == nil {
		employee.DocumentKey = existing.DocumentKey
	}
	return s.repo.Update(ctx, employee)
}

func (s *employeeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *employeeService) List(ctx context.Context, limit, offset int) ([]*models.Employee, error) {
	return s.repo.List(ctx, limit, offset)
}
