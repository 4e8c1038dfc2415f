package blog

import (
	"context"
	"fmt"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"
	"organicstore-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, params CreatePostParams) (*Post, error)
	GetByID(ctx context.Context, id uint) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, int64, error)
	Update(ctx context.Context, id uint, params UpdatePostParams) (*Post, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params CreatePostParams) (*Post, error) {
	if params.Title == "" || params.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", apperr.ErrValidation)
	}
	if params.AuthorID == 0 {
		return nil, fmt.Errorf("%w: login required", apperr.ErrUnauthenticated)
	}

	p, err := s.repo.Create(ctx, &Post{
		Title:    params.Title,
		Slug:     utils.Slugify(params.Title),
		Content:  params.Content,
		AuthorID: params.AuthorID,
	})
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("blog post published",
		zap.Uint("post_id", p.ID),
		zap.String("slug", p.Slug),
	)
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Post, int64, error) {
	return s.repo.List(ctx, opts)
}

// Update re-derives the slug whenever the title changes; authorship never
// changes.
func (s *service) Update(ctx context.Context, id uint, params UpdatePostParams) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperr.ErrValidation)
		}
		p.Title = *params.Title
		p.Slug = utils.Slugify(*params.Title)
	}
	if params.Content != nil {
		if *params.Content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", apperr.ErrValidation)
		}
		p.Content = *params.Content
	}

	return s.repo.Update(ctx, p)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
