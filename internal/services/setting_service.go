package services

import (
	"context"
	"time"

	"caretrack/internal/caching"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

const settingsCacheTTL = 10 * time.Minute

type SettingService interface {
	Create(ctx context.Context, setting *models.Setting) error
	Update(ctx context.Context, setting *models.Setting) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByGroup(ctx context.Context, group string) ([]*models.Setting, error)
	ListGroups(ctx context.Context) ([]string, error)
}

type settingService struct {
	repo  repositories.SettingRepository
	cache caching.CacheService
}

func NewSettingService(repo repositories.SettingRepository, cache caching.CacheService) SettingService {
	return &settingService{repo: repo, cache: cache}
}

func (s *settingService) Create(ctx context.Context, setting *models.Setting) error {
	setting.ID = uuid.New()
	if err := s.repo.Create(ctx, setting); err != nil {
		return err
	}
	s.invalidate(ctx, setting.Group)
	return nil
}

func (s *settingService) Update(ctx context.Context, setting *models.Setting) error {
	existing, err := s.repo.GetByID(ctx, setting.ID)
	if err != nil {
		return err
	}
	setting.Group = existing.Group
	setting.Key = existing.Key
	if err := s.repo.Update(ctx, setting); err != nil {
		return err
	}
	s.invalidate(ctx, setting.Group)
	return nil
}

func (s *settingService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Group)
	return nil
}

// ListByGroup serves dropdown options, cached because every form load hits
// them.
func (s *settingService) ListByGroup(ctx context.Context, group string) ([]*models.Setting, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSettings(ctx, group); err == nil && cached != nil {
			return cached, nil
		}
	}
	settings, err := s.repo.ListByGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSettings(ctx, group, settings, settingsCacheTTL)
	}
	return settings, nil
}

func (s *settingService) ListGroups(ctx context.Context) ([]string, error) {
	return s.repo.ListGroups(ctx)
}

func (s *settingService) invalidate(ctx context.Context, group string) {
	if s.cache != nil {
		_ = s.cache.InvalidateSettings(ctx, group)
	}
}
