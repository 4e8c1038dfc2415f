package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the authoritative pre-checkout selection for one user. TotalPrice
// is materialized and recomputed in the same transaction as every line
// mutation, so it always equals the sum of line subtotals.
type Cart struct {
	ID         uint
	UserID     uint
	TotalPrice decimal.Decimal
	Items      []CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartItem captures the product's discounted price at mutation time; the
// price is re-read from the catalog whenever the quantity changes, so
// catalog price drift before checkout is reflected.
type CartItem struct {
	ID          uint
	CartID      uint
	ProductID   uint
	ProductName string
	ProductSlug string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AddItemParams struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

type UpdateItemParams struct {
	UserID   uint
	ItemID   uint
	Quantity int
}

type upsertItemParams struct {
	CartID    uint
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}
