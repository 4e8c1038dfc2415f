package product

import (
	"context"
	"fmt"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/logger"
	"organicstore-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, params CreateProductParams) (*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, int64, error)
	Update(ctx context.Context, id uint, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", apperr.ErrValidation)
	}
	if !params.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if params.Discount < 0 || params.Discount > 100 {
		return nil, ErrInvalidDiscount
	}
	if params.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity cannot be negative", apperr.ErrValidation)
	}

	p := &Product{
		Name:          params.Name,
		Slug:          utils.Slugify(params.Name),
		Description:   params.Description,
		Price:         params.Price,
		Discount:      params.Discount,
		StockQuantity: params.StockQuantity,
		IsFeatured:    params.IsFeatured,
		IsNew:         params.IsNew,
	}
	p.ApplyDiscount()

	return s.repo.Create(ctx, p)
}

func (s *service) GetByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, int64, error) {
	return s.repo.List(ctx, opts)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateProductParams) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return nil, fmt.Errorf("%w: product name is required", apperr.ErrValidation)
		}
		p.Name = *params.Name
		p.Slug = utils.Slugify(*params.Name)
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Price != nil {
		if !params.Price.IsPositive() {
			return nil, ErrInvalidPrice
		}
		p.Price = *params.Price
	}
	if params.Discount != nil {
		if *params.Discount < 0 || *params.Discount > 100 {
			return nil, ErrInvalidDiscount
		}
		p.Discount = *params.Discount
	}
	if params.StockQuantity != nil {
		if *params.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: stock quantity cannot be negative", apperr.ErrValidation)
		}
		p.StockQuantity = *params.StockQuantity
	}
	if params.IsFeatured != nil {
		p.IsFeatured = *params.IsFeatured
	}
	if params.IsNew != nil {
		p.IsNew = *params.IsNew
	}

	p.ApplyDiscount()

	return s.repo.Update(ctx, p)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// AdjustStock applies a manual inventory correction. Negative deltas go
// through the conditional decrement so stock can never be driven below zero.
func (s *service) AdjustStock(ctx context.Context, id uint, delta int) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("product_id", id),
		zap.Int("delta", delta),
	)

	if delta == 0 {
		return nil, fmt.Errorf("%w: stock adjustment cannot be zero", apperr.ErrValidation)
	}

	var err error
	if delta > 0 {
		err = s.repo.RestoreStock(ctx, id, delta)
	} else {
		err = s.repo.DecrementStock(ctx, id, -delta)
	}
	if err != nil {
		log.Warn("stock adjustment failed", zap.Error(err))
		return nil, err
	}

	log.Info("stock adjusted")
	return s.repo.GetByID(ctx, id)
}
