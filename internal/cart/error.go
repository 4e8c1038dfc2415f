package cart

import (
	"fmt"

	"organicstore-be/internal/apperr"
)

var (
	// -- Validation & Input --
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", apperr.ErrValidation)

	// -- Authorization --
	ErrItemNotOwned = fmt.Errorf("%w: cart item belongs to another user's cart", apperr.ErrForbidden)

	// -- Resource State --
	ErrCartItemNotFound  = fmt.Errorf("%w: cart item not found", apperr.ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	ErrInsufficientStock = fmt.Errorf("%w for requested quantity", apperr.ErrInsufficientStock)
)
