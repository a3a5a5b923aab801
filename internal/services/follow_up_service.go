package services

import (
	"context"
	"errors"
	"time"

	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrFollowUpTarget = errors.New("follow-up must reference exactly one lead")
	ErrInvalidOutcome = errors.New("unknown follow-up outcome")
)

type FollowUpService interface {
	Create(ctx context.Context, fu *models.FollowUp) error
	Get(ctx context.Context, id uuid.UUID) (*models.FollowUp, error)
	Update(ctx context.Context, fu *models.FollowUp) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForB2C(ctx context.Context, enquiryID string) ([]*models.FollowUp, error)
	ListForB2B(ctx context.Context, leadID uuid.UUID) ([]*models.FollowUp, error)
	DueToday(ctx context.Context) ([]*models.FollowUp, error)
}

type followUpService struct {
	repo    repositories.FollowUpRepository
	b2cRepo repositories.B2CLeadRepository
	b2bRepo repositories.B2BLeadRepository
}

func NewFollowUpService(repo repositories.FollowUpRepository, b2cRepo repositories.B2CLeadRepository, b2bRepo repositories.B2BLeadRepository) FollowUpService {
	return &followUpService{repo: repo, b2cRepo: b2cRepo, b2bRepo: b2bRepo}
}

func validateFollowUp(fu *models.FollowUp) error {
	hasB2C := fu.B2CLeadID != nil
	hasB2B := fu.B2BLeadID != nil
	if hasB2C == hasB2B {
		return ErrFollowUpTarget
	}
	if !models.ValidOutcome(fu.Outcome) {
		return ErrInvalidOutcome
	}
	return nil
}

// Create records a contact attempt. The parent lead moves to FOLLOW_UP
// status unless it is already converted or lost.
func (s *followUpService) Create(ctx context.Context, fu *models.FollowUp) error {
	if err := validateFollowUp(fu); err != nil {
		return err
	}
	fu.ID = uuid.New()
	if fu.B2CLeadID != nil {
		fu.LeadType = "B2C"
		lead, err := s.b2cRepo.GetByEnquiryID(ctx, *fu.B2CLeadID)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, fu); err != nil {
			return err
		}
		if lead.Status == models.LeadStatusNew {
			lead.Status = models.LeadStatusFollowUp
			return s.b2cRepo.Update(ctx, lead)
		}
		return nil
	}
	fu.LeadType = "B2B"
	lead, err := s.b2bRepo.GetByID(ctx, *fu.B2BLeadID)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, fu); err != nil {
		return err
	}
	if lead.Status == models.LeadStatusNew {
		lead.Status = models.LeadStatusFollowUp
		return s.b2bRepo.Update(ctx, lead)
	}
	return nil
}

func (s *followUpService) Get(ctx context.Context, id uuid.UUID) (*models.FollowUp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *followUpService) Update(ctx context.Context, fu *models.FollowUp) error {
	if !models.ValidOutcome(fu.Outcome) {
		return ErrInvalidOutcome
	}
	return s.repo.Update(ctx, fu)
}

func (s *followUpService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *followUpService) ListForB2C(ctx context.Context, enquiryID string) ([]*models.FollowUp, error) {
	return s.repo.ListByB2CLead(ctx, enquiryID)
}

func (s *followUpService) ListForB2B(ctx context.Context, leadID uuid.UUID) ([]*models.FollowUp, error) {
	return s.repo.ListByB2BLead(ctx, leadID)
}

func (s *followUpService) DueToday(ctx context.Context) ([]*models.FollowUp, error) {
	return s.repo.ListDueOn(ctx, time.Now())
}
