package order

import (
	"fmt"

	"organicstore-be/internal/apperr"
)

var (
	ErrOrderNotFound     = fmt.Errorf("%w: order not found", apperr.ErrNotFound)
	ErrEmptyCart         = fmt.Errorf("%w: cannot create order", apperr.ErrEmptyCart)
	ErrForbidden         = fmt.Errorf("%w: cannot access others' orders", apperr.ErrForbidden)
	ErrAdminOnly         = fmt.Errorf("%w: admin role required", apperr.ErrForbidden)
	ErrOrderNumberTaken  = fmt.Errorf("%w: order number already exists", apperr.ErrConflict)
	ErrUnknownStatus     = fmt.Errorf("%w: unrecognized order status", apperr.ErrInvalidStatus)
	ErrTerminalStatus    = fmt.Errorf("%w: order is in a terminal status", apperr.ErrInvalidStatus)
	ErrMissingAddress    = fmt.Errorf("%w: shipping address is incomplete", apperr.ErrValidation)
	ErrMissingPayment    = fmt.Errorf("%w: payment method is required", apperr.ErrValidation)
	ErrUnauthenticated   = fmt.Errorf("%w: login required", apperr.ErrUnauthenticated)
)

// insufficientStock names the product that blocked checkout while staying
// matchable with errors.Is(err, apperr.ErrInsufficientStock).
func insufficientStock(productName string) error {
	return fmt.Errorf("%w for product: %s", apperr.ErrInsufficientStock, productName)
}
