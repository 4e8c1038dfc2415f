package product

import (
	"fmt"

	"organicstore-be/internal/apperr"
)

var (
	ErrProductNotFound   = fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	ErrSlugTaken         = fmt.Errorf("%w: product slug already exists", apperr.ErrConflict)
	ErrInsufficientStock = fmt.Errorf("%w: not enough stock", apperr.ErrInsufficientStock)
	ErrProductReferenced = fmt.Errorf("%w: product is referenced by existing orders", apperr.ErrConflict)
	ErrInvalidDiscount   = fmt.Errorf("%w: discount must be between 0 and 100", apperr.ErrValidation)
	ErrInvalidPrice      = fmt.Errorf("%w: price must be positive", apperr.ErrValidation)
)
