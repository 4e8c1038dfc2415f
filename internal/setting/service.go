package setting

import (
	"context"
	"fmt"

	"organicstore-be/internal/apperr"
)

type Service interface {
	Create(ctx context.Context, params UpsertSettingParams) (*Setting, error)
	GetByKey(ctx context.Context, key string) (*Setting, error)
	List(ctx context.Context) ([]*Setting, error)
	Update(ctx context.Context, id uint, params UpsertSettingParams) (*Setting, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params UpsertSettingParams) (*Setting, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("%w: setting key is required", apperr.ErrValidation)
	}
	return s.repo.Create(ctx, params)
}

func (s *service) GetByKey(ctx context.Context, key string) (*Setting, error) {
	return s.repo.GetByKey(ctx, key)
}

func (s *service) List(ctx context.Context) ([]*Setting, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uint, params UpsertSettingParams) (*Setting, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("%w: setting key is required", apperr.ErrValidation)
	}
	return s.repo.Update(ctx, id, params)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
