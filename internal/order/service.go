package order

import (
	"context"
	"errors"

	"organicstore-be/internal/cart"
	"organicstore-be/internal/logger"
	"organicstore-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// orderNumberRetries bounds regeneration on a random-suffix collision.
const orderNumberRetries = 3

// Pricing carries the checkout pricing rules: shipping is free above the
// threshold, otherwise the flat fee applies, and tax is a flat percentage
// of the subtotal.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
	TaxRatePercent        decimal.Decimal
}

type Service interface {
	Create(ctx context.Context, params CreateOrderParams) (*Order, error)
	GetByID(ctx context.Context, userID, orderID uint, isAdmin bool) (*Order, error)
	ListMine(ctx context.Context, userID uint, limit, page *int32) ([]*Order, int64, error)
	ListAll(ctx context.Context, opts ListOptions, isAdmin bool) ([]*Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uint, status string, isAdmin bool) (*Order, error)
	UpdatePayment(ctx context.Context, orderID uint, isPaid bool, isAdmin bool) (*Order, error)
	Delete(ctx context.Context, orderID uint, isAdmin bool) error
}

// CartSource is the slice of the cart layer checkout needs: loading the
// user's cart with its lines.
type CartSource interface {
	GetOrCreate(ctx context.Context, userID uint) (*cart.Cart, error)
}

type service struct {
	repo     Repository
	cartRepo CartSource
	pricing  Pricing
}

func NewService(repo Repository, cartRepo CartSource, pricing Pricing) Service {
	return &service{repo: repo, cartRepo: cartRepo, pricing: pricing}
}

// Create converts the user's cart into a priced, stock-committed order.
// Totals are computed once here and never recomputed afterward.
func (s *service) Create(ctx context.Context, params CreateOrderParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", params.UserID),
	)

	if params.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if params.PaymentMethod == "" {
		return nil, ErrMissingPayment
	}
	addr := params.ShippingAddress
	if addr.FullName == "" || addr.AddressLine1 == "" || addr.City == "" {
		return nil, ErrMissingAddress
	}

	// 1. Load the cart; its lines are the checkout source of truth.
	c, err := s.cartRepo.GetOrCreate(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// 2. Snapshot lines and sum the subtotal. The line ids scope the cart
	// cleanup inside the transaction to exactly this snapshot.
	items := make([]OrderItem, 0, len(c.Items))
	cartLineIDs := make([]uint, 0, len(c.Items))
	subtotal := decimal.Zero

	for _, line := range c.Items {
		cartLineIDs = append(cartLineIDs, line.ID)
		items = append(items, OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
		subtotal = subtotal.Add(line.Subtotal)
	}

	// 3. Pricing.
	shippingCost := s.pricing.ShippingFlatFee
	if subtotal.GreaterThan(s.pricing.FreeShippingThreshold) {
		shippingCost = decimal.Zero
	}
	tax := subtotal.Mul(s.pricing.TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(shippingCost).Add(tax)

	log.Info("order priced",
		zap.String("subtotal", subtotal.String()),
		zap.String("shipping_cost", shippingCost.String()),
		zap.String("tax", tax.String()),
		zap.String("total", total.String()),
	)

	o := &Order{
		UserID:       params.UserID,
		Status:       StatusPending,
		PaymentMeth:  params.PaymentMethod,
		Notes:        params.Notes,
		IsPaid:       false,
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Tax:          tax,
		Total:        total,
		ShippingAddr: addr,
		Items:        items,
	}

	// 4. Persist, regenerating the order number on a suffix collision.
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		o.OrderNumber = utils.GenerateOrderNumber()

		err = s.repo.CreateOrderTx(ctx, o, cartLineIDs)
		if errors.Is(err, ErrOrderNumberTaken) {
			log.Warn("order number collision, retrying",
				zap.String("order_number", o.OrderNumber),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Info("order created",
			zap.Uint("order_id", o.ID),
			zap.String("order_number", o.OrderNumber),
		)
		return o, nil
	}

	return nil, ErrOrderNumberTaken
}

func (s *service) GetByID(ctx context.Context, userID, orderID uint, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *service) ListMine(ctx context.Context, userID uint, limit, page *int32) ([]*Order, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, page)
}

func (s *service) ListAll(ctx context.Context, opts ListOptions, isAdmin bool) ([]*Order, int64, error) {
	if !isAdmin {
		return nil, 0, ErrAdminOnly
	}
	return s.repo.ListAll(ctx, opts)
}

// UpdateStatus drives the order lifecycle. Delivery marks the order paid;
// cancellation returns reserved stock exactly once. Totals never change.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, status string, isAdmin bool) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.Uint("order_id", orderID),
		zap.String("target_status", status),
	)

	if !isAdmin {
		return nil, ErrAdminOnly
	}

	target, ok := ParseStatus(status)
	if !ok {
		return nil, ErrUnknownStatus
	}

	o, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Re-applying the current status is a no-op; in particular a second
	// cancellation must not restore stock again.
	if o.Status == target {
		log.Info("status unchanged, no-op")
		return o, nil
	}

	if o.Status.IsTerminal() {
		return nil, ErrTerminalStatus
	}

	switch target {
	case StatusDelivered:
		err = s.repo.MarkDelivered(ctx, orderID)
	case StatusCancelled:
		_, err = s.repo.CancelTx(ctx, orderID)
	default:
		err = s.repo.UpdateStatus(ctx, orderID, target)
	}
	if err != nil {
		log.Error("status transition failed", zap.Error(err))
		return nil, err
	}

	log.Info("status transition applied", zap.String("from", string(o.Status)))
	return s.repo.GetDetail(ctx, orderID)
}

func (s *service) UpdatePayment(ctx context.Context, orderID uint, isPaid bool, isAdmin bool) (*Order, error) {
	if !isAdmin {
		return nil, ErrAdminOnly
	}

	if err := s.repo.UpdatePayment(ctx, orderID, isPaid); err != nil {
		return nil, err
	}

	return s.repo.GetDetail(ctx, orderID)
}

func (s *service) Delete(ctx context.Context, orderID uint, isAdmin bool) error {
	if !isAdmin {
		return ErrAdminOnly
	}
	return s.repo.DeleteTx(ctx, orderID)
}
