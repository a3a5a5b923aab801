package services

import (
	"context"

	"caretrack/internal/codegen"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, customer *models.Customer) error
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	ConvertFromB2CLead(ctx context.Context, enquiryID string, actorID *uuid.UUID) (*models.Customer, error)
}

type customerService struct {
	pool         TxStarter
	customerRepo repositories.CustomerRepository
	b2cRepo      repositories.B2CLeadRepository
}

func NewCustomerService(pool TxStarter, customerRepo repositories.CustomerRepository, b2cRepo repositories.B2CLeadRepository) CustomerService {
	return &customerService{pool: pool, customerRepo: customerRepo, b2cRepo: b2cRepo}
}

func (s *customerService) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = uuid.New()
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.customerRepo.ListCodes(ctx, codegen.CustomerPrefix)
		if err != nil {
			return err
		}
		customer.CustomerCode = codegen.Next(codegen.CustomerPrefix, codegen.EntityWidth, codes)
		err = s.customerRepo.Create(ctx, customer)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, customer *models.Customer) error {
	existing, err := s.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		return err
	}
	customer.CustomerCode = existing.CustomerCode
	return s.customerRepo.Update(ctx, customer)
}

func (s *customerService) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, limit, offset)
}

// ConvertFromB2CLead creates a customer from a lead's details and marks the
// lead converted, in one transaction. Converting an already converted lead
// returns the existing customer instead of creating a duplicate.
func (s *customerService) ConvertFromB2CLead(ctx context.Context, enquiryID string, actorID *uuid.UUID) (*models.Customer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	customerRepo := s.customerRepo.WithTx(tx)
	b2cRepo := s.b2cRepo.WithTx(tx)

	lead, err := b2cRepo.GetByEnquiryID(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if lead.Status == models.LeadStatusConverted && lead.CustomerID != nil {
		return customerRepo.GetByID(ctx, *lead.CustomerID)
	}

	customer := &models.Customer{
		ID:           uuid.New(),
		CustomerName: lead.CustomerName,
		ContactNo:    lead.ContactNo,
		Email:        lead.Email,
		Services:     lead.Services,
		CreatedBy:    actorID,
		UpdatedBy:    actorID,
	}
	created := false
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := customerRepo.ListCodes(ctx, codegen.CustomerPrefix)
		if err != nil {
			return nil, err
		}
		customer.CustomerCode = codegen.Next(codegen.CustomerPrefix, codegen.EntityWidth, codes)
		err = customerRepo.Create(ctx, customer)
		if err == nil {
			created = true
			break
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	if !created {
		return nil, ErrCodeExhausted
	}

	if err := b2cRepo.MarkConverted(ctx, enquiryID, customer.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return customer, nil
}
