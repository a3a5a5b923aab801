package services

import (
	"context"
	"errors"

	"caretrack/internal/codegen"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

var ErrPartnerHasCustomers = errors.New("partner still has referred customers")

type PartnerService interface {
	Create(ctx context.Context, partner *models.ChannelPartner) error
	Get(ctx context.Context, id uuid.UUID) (*models.ChannelPartner, error)
	Update(ctx context.Context, partner *models.ChannelPartner) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.ChannelPartner, error)
}

type partnerService struct {
	repo repositories.ChannelPartnerRepository
}

func NewPartnerService(repo repositories.ChannelPartnerRepository) PartnerService {
	return &partnerService{repo: repo}
}

func (s *partnerService) Create(ctx context.Context, partner *models.ChannelPartner) error {
	partner.ID = uuid.New()
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.repo.ListCodes(ctx, codegen.PartnerPrefix)
		if err != nil {
			return err
		}
		partner.PartnerCode = codegen.Next(codegen.PartnerPrefix, codegen.EntityWidth, codes)
		err = s.repo.Create(ctx, partner)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *partnerService) Get(ctx context.Context, id uuid.UUID) (*models.ChannelPartner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *partnerService) Update(ctx context.Context, partner *models.ChannelPartner) error {
	existing, err := s.repo.GetByID(ctx, partner.ID)
	if err != nil {
		return err
	}
	partner.PartnerCode = existing.PartnerCode
	return s.repo.Update(ctx, partner)
}

// Delete refuses to remove a partner with referred customers so their
// attribution history stays intact.
func (s *partnerService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountCustomers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPartnerHasCustomers
	}
	return s.repo.Delete(ctx, id)
}

func (s *partnerService) List(ctx context.Context, limit, offset int) ([]*models.ChannelPartner, error) {
	return s.repo.List(ctx, limit, offset)
}
