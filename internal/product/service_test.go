package product

import (
	"context"
	"testing"

	"organicstore-be/internal/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Product) (*Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts ListOptions) ([]*Product, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, p *Product) (*Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DecrementStock(ctx context.Context, id uint, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockRepository) RestoreStock(ctx context.Context, id uint, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func TestApplyDiscount(t *testing.T) {
	p := &Product{Price: decimal.NewFromInt(200), Discount: 25}
	p.ApplyDiscount()
	assert.True(t, p.DiscountedPrice.Equal(decimal.NewFromInt(150)))

	t.Run("NoDiscount", func(t *testing.T) {
		p := &Product{Price: decimal.NewFromInt(200)}
		p.ApplyDiscount()
		assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(200)))
	})

	t.Run("EffectiveUsesDiscounted", func(t *testing.T) {
		p := &Product{Price: decimal.NewFromInt(100), Discount: 10}
		p.ApplyDiscount()
		assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(90)))
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(p *Product) bool {
			return p.Slug == "organic-honey" &&
				p.DiscountedPrice.Equal(decimal.NewFromInt(90))
		})).Return(&Product{ID: 1, Slug: "organic-honey"}, nil)

		created, err := svc.Create(ctx, CreateProductParams{
			Name:          "Organic Honey",
			Price:         decimal.NewFromInt(100),
			Discount:      10,
			StockQuantity: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), created.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		_, err := svc.Create(ctx, CreateProductParams{Name: "X", Price: decimal.Zero})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("InvalidDiscount", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		_, err := svc.Create(ctx, CreateProductParams{
			Name:     "X",
			Price:    decimal.NewFromInt(10),
			Discount: 150,
		})
		assert.ErrorIs(t, err, ErrInvalidDiscount)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("RecomputesDiscountedPrice", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		existing := &Product{
			ID: 1, Name: "Organic Honey", Slug: "organic-honey",
			Price: decimal.NewFromInt(100), Discount: 10,
		}
		existing.ApplyDiscount()

		mockRepo.On("GetByID", ctx, uint(1)).Return(existing, nil)

		newPrice := decimal.NewFromInt(200)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(p *Product) bool {
			return p.Price.Equal(newPrice) &&
				p.DiscountedPrice.Equal(decimal.NewFromInt(180))
		})).Return(existing, nil)

		_, err := svc.Update(ctx, 1, UpdateProductParams{Price: &newPrice})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("GetByID", ctx, uint(9)).Return(nil, ErrProductNotFound)

		_, err := svc.Update(ctx, 9, UpdateProductParams{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Increase", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("RestoreStock", ctx, uint(1), 5).Return(nil)
		mockRepo.On("GetByID", ctx, uint(1)).Return(&Product{ID: 1, StockQuantity: 15}, nil)

		p, err := svc.AdjustStock(ctx, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 15, p.StockQuantity)
	})

	t.Run("DecreaseGoesThroughConditionalUpdate", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("DecrementStock", ctx, uint(1), 5).Return(nil)
		mockRepo.On("GetByID", ctx, uint(1)).Return(&Product{ID: 1, StockQuantity: 5}, nil)

		_, err := svc.AdjustStock(ctx, 1, -5)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DecreaseBelowZero", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		mockRepo.On("DecrementStock", ctx, uint(1), 50).Return(ErrInsufficientStock)

		_, err := svc.AdjustStock(ctx, 1, -50)
		assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("ZeroDelta", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		_, err := svc.AdjustStock(ctx, 1, 0)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
