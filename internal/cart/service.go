package cart

import (
	"context"
	"errors"

	"organicstore-be/internal/logger"
	"organicstore-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	GetCart(ctx context.Context, userID uint) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (*Cart, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error)
	ClearCart(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// AddItem adds a product to the user's cart, merging with an existing line
// for the same product. Stock is checked but not reserved; reservation
// happens at checkout.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("user_id", params.UserID),
		zap.Uint("product_id", params.ProductID),
		zap.Int("quantity", params.Quantity),
	)

	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	c, err := s.repo.GetOrCreate(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	// Merge with an existing line for the same product.
	finalQty := params.Quantity
	for _, item := range c.Items {
		if item.ProductID == params.ProductID {
			finalQty += item.Quantity
			break
		}
	}

	if p.StockQuantity < finalQty {
		log.Warn("add to cart rejected, insufficient stock",
			zap.Int("stock", p.StockQuantity),
			zap.Int("requested", finalQty),
		)
		return nil, ErrInsufficientStock
	}

	updated, err := s.repo.UpsertItem(ctx, upsertItemParams{
		CartID:    c.ID,
		ProductID: params.ProductID,
		Quantity:  finalQty,
		UnitPrice: p.EffectivePrice(),
	})
	if err != nil {
		return nil, err
	}

	log.Info("item added to cart", zap.Int("final_quantity", finalQty))
	return updated, nil
}

// UpdateItem overwrites a line's quantity, re-capturing the product's
// current discounted price. The stock check is absolute, not incremental.
func (s *service) UpdateItem(ctx context.Context, params UpdateItemParams) (*Cart, error) {
	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.repo.GetItemByID(ctx, params.ItemID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreate(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if item.CartID != c.ID {
		return nil, ErrItemNotOwned
	}

	p, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	if p.StockQuantity < params.Quantity {
		return nil, ErrInsufficientStock
	}

	return s.repo.UpdateItem(ctx, params.ItemID, params.Quantity, p.EffectivePrice())
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) (*Cart, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if item.CartID != c.ID {
		return nil, ErrItemNotOwned
	}

	return s.repo.RemoveItem(ctx, itemID, c.ID)
}

// ClearCart removes all lines and zeroes the total. Always succeeds,
// including for users without a cart yet.
func (s *service) ClearCart(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}
