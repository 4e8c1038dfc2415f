package order

import (
	"context"
	"testing"

	"organicstore-be/internal/apperr"
	"organicstore-be/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order, cartLineIDs []uint) error {
	args := m.Called(ctx, o, cartLineIDs)
	return args.Error(0)
}

func (m *MockRepository) GetDetail(ctx context.Context, orderID uint) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint, limit, page *int32) ([]*Order, int64, error) {
	args := m.Called(ctx, userID, limit, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListAll(ctx context.Context, opts ListOptions) ([]*Order, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockRepository) MarkDelivered(ctx context.Context, orderID uint) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockRepository) CancelTx(ctx context.Context, orderID uint) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdatePayment(ctx context.Context, orderID uint, isPaid bool) error {
	args := m.Called(ctx, orderID, isPaid)
	return args.Error(0)
}

func (m *MockRepository) DeleteTx(ctx context.Context, orderID uint) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockCartSource struct {
	mock.Mock
}

func (m *MockCartSource) GetOrCreate(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func testPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(500000),
		ShippingFlatFee:       decimal.NewFromInt(30000),
		TaxRatePercent:        decimal.NewFromInt(10),
	}
}

func filledCart(subtotal int64) *cart.Cart {
	return &cart.Cart{
		ID:         10,
		UserID:     1,
		TotalPrice: decimal.NewFromInt(subtotal),
		Items: []cart.CartItem{
			{
				ID:          5,
				CartID:      10,
				ProductID:   2,
				ProductName: "Organic Honey",
				Quantity:    1,
				UnitPrice:   decimal.NewFromInt(subtotal),
				Subtotal:    decimal.NewFromInt(subtotal),
			},
		},
	}
}

func validParams() CreateOrderParams {
	return CreateOrderParams{
		UserID:        1,
		PaymentMethod: "transfer",
		ShippingAddress: ShippingAddress{
			FullName:     "Jane Doe",
			AddressLine1: "Jl. Merdeka 1",
			City:         "Jakarta",
		},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("PricesBelowFreeShippingThreshold", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		mockCart.On("GetOrCreate", ctx, uint(1)).Return(filledCart(200000), nil)

		// The cart line ids handed to the repository scope the in-tx cart
		// cleanup to the snapshot that was priced.
		var captured *Order
		mockRepo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), []uint{5}).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*Order)
				captured.ID = 7
			}).Return(nil)

		o, err := svc.Create(ctx, validParams())
		require.NoError(t, err)

		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(200000)))
		assert.True(t, o.ShippingCost.Equal(decimal.NewFromInt(30000)))
		assert.True(t, o.Tax.Equal(decimal.NewFromInt(20000)))
		assert.True(t, o.Total.Equal(decimal.NewFromInt(250000)))
		assert.Equal(t, StatusPending, o.Status)
		assert.Contains(t, o.OrderNumber, "ORD-")
		require.Len(t, o.Items, 1)
		assert.Equal(t, "Organic Honey", o.Items[0].ProductName)
	})

	t.Run("FreeShippingAboveThreshold", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		mockCart.On("GetOrCreate", ctx, uint(1)).Return(filledCart(600000), nil)
		mockRepo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), mock.AnythingOfType("[]uint")).Return(nil)

		o, err := svc.Create(ctx, validParams())
		require.NoError(t, err)

		assert.True(t, o.ShippingCost.IsZero())
		assert.True(t, o.Tax.Equal(decimal.NewFromInt(60000)))
		assert.True(t, o.Total.Equal(decimal.NewFromInt(660000)))
	})

	t.Run("EmptyCart", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		mockCart.On("GetOrCreate", ctx, uint(1)).Return(&cart.Cart{ID: 10, UserID: 1}, nil)

		_, err := svc.Create(ctx, validParams())
		assert.ErrorIs(t, err, apperr.ErrEmptyCart)
		mockRepo.AssertNotCalled(t, "CreateOrderTx")
	})

	t.Run("MissingAddress", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		params := validParams()
		params.ShippingAddress.City = ""

		_, err := svc.Create(ctx, params)
		assert.ErrorIs(t, err, ErrMissingAddress)
		mockCart.AssertNotCalled(t, "GetOrCreate")
	})

	t.Run("MissingPaymentMethod", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		params := validParams()
		params.PaymentMethod = ""

		_, err := svc.Create(ctx, params)
		assert.ErrorIs(t, err, ErrMissingPayment)
	})

	t.Run("RetriesOnOrderNumberCollision", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		mockCart.On("GetOrCreate", ctx, uint(1)).Return(filledCart(200000), nil)

		mockRepo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), mock.AnythingOfType("[]uint")).
			Return(ErrOrderNumberTaken).Once()
		mockRepo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), mock.AnythingOfType("[]uint")).
			Return(nil).Once()

		o, err := svc.Create(ctx, validParams())
		require.NoError(t, err)
		assert.NotEmpty(t, o.OrderNumber)
		mockRepo.AssertNumberOfCalls(t, "CreateOrderTx", 2)
	})

	t.Run("GivesUpAfterRepeatedCollisions", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockCart := new(MockCartSource)
		svc := NewService(mockRepo, mockCart, testPricing())

		mockCart.On("GetOrCreate", ctx, uint(1)).Return(filledCart(200000), nil)
		mockRepo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order"), mock.AnythingOfType("[]uint")).
			Return(ErrOrderNumberTaken)

		_, err := svc.Create(ctx, validParams())
		assert.ErrorIs(t, err, ErrOrderNumberTaken)
		mockRepo.AssertNumberOfCalls(t, "CreateOrderTx", orderNumberRetries)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCanRead", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, UserID: 1}, nil)

		o, err := svc.GetByID(ctx, 1, 7, false)
		require.NoError(t, err)
		assert.Equal(t, uint(7), o.ID)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, UserID: 1}, nil)

		_, err := svc.GetByID(ctx, 2, 7, false)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("AdminCanReadAny", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, UserID: 1}, nil)

		_, err := svc.GetByID(ctx, 2, 7, true)
		assert.NoError(t, err)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("NonAdminRejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		_, err := svc.UpdateStatus(ctx, 7, "SHIPPED", false)
		assert.ErrorIs(t, err, ErrAdminOnly)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		_, err := svc.UpdateStatus(ctx, 7, "TELEPORTED", true)
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("PlainTransition", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, Status: StatusPending}, nil)
		mockRepo.On("UpdateStatus", ctx, uint(7), StatusShipped).Return(nil)

		_, err := svc.UpdateStatus(ctx, 7, "SHIPPED", true)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DeliveredSettlesPayment", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, Status: StatusShipped}, nil)
		mockRepo.On("MarkDelivered", ctx, uint(7)).Return(nil)

		_, err := svc.UpdateStatus(ctx, 7, "DELIVERED", true)
		assert.NoError(t, err)
		mockRepo.AssertCalled(t, "MarkDelivered", ctx, uint(7))
	})

	t.Run("CancelRoutesThroughCancelTx", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, Status: StatusPending}, nil)
		mockRepo.On("CancelTx", ctx, uint(7)).Return(true, nil)

		_, err := svc.UpdateStatus(ctx, 7, "CANCELLED", true)
		assert.NoError(t, err)
		mockRepo.AssertCalled(t, "CancelTx", ctx, uint(7))
	})

	t.Run("SecondCancelIsNoOp", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, Status: StatusCancelled}, nil)

		o, err := svc.UpdateStatus(ctx, 7, "CANCELLED", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
		mockRepo.AssertNotCalled(t, "CancelTx")
	})

	t.Run("TerminalStatusRejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("GetDetail", ctx, uint(7)).Return(&Order{ID: 7, Status: StatusDelivered}, nil)

		_, err := svc.UpdateStatus(ctx, 7, "PROCESSING", true)
		assert.ErrorIs(t, err, ErrTerminalStatus)
	})
}

func TestService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		_, _, err := svc.ListAll(ctx, ListOptions{}, false)
		assert.ErrorIs(t, err, ErrAdminOnly)
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("ListAll", ctx, ListOptions{}).Return([]*Order{{ID: 7}}, int64(1), nil)

		orders, total, err := svc.ListAll(ctx, ListOptions{}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, orders, 1)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		err := svc.Delete(ctx, 7, false)
		assert.ErrorIs(t, err, ErrAdminOnly)
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockCartSource), testPricing())

		mockRepo.On("DeleteTx", ctx, uint(7)).Return(nil)

		assert.NoError(t, svc.Delete(ctx, 7, true))
	})
}
