package contact

import (
	"context"
	"fmt"
	"strings"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, params CreateContactParams) (*Contact, error)
	GetByID(ctx context.Context, id uint) (*Contact, error)
	List(ctx context.Context, limit, page *int32) ([]*Contact, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*Contact, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params CreateContactParams) (*Contact, error) {
	if params.Name == "" || params.Message == "" {
		return nil, fmt.Errorf("%w: name and message are required", apperr.ErrValidation)
	}
	if !strings.Contains(params.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", apperr.ErrValidation)
	}

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("contact message received",
		zap.Uint("contact_id", c.ID),
		zap.String("email", c.Email),
	)
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, page *int32) ([]*Contact, int64, error) {
	return s.repo.List(ctx, limit, page)
}

func (s *service) UpdateStatus(ctx context.Context, id uint, status string) (*Contact, error) {
	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, ErrUnknownStatus
	}
	return s.repo.UpdateStatus(ctx, id, parsed)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
