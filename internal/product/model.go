package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              uint
	Name            string
	Slug            string
	Description     string
	Price           decimal.Decimal
	Discount        int
	DiscountedPrice decimal.Decimal
	StockQuantity   int
	IsFeatured      bool
	InStock         bool
	IsNew           bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectivePrice is the price actually charged: the discounted price when a
// discount is set, the raw price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.Discount > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

// ApplyDiscount recomputes the derived discounted price from the current
// price and discount percent. Must be called on every price/discount write.
func (p *Product) ApplyDiscount() {
	factor := decimal.NewFromInt(100 - int64(p.Discount)).Div(decimal.NewFromInt(100))
	p.DiscountedPrice = p.Price.Mul(factor).Round(2)
}

type CreateProductParams struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Discount      int
	StockQuantity int
	IsFeatured    bool
	IsNew         bool
}

type UpdateProductParams struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Discount      *int
	StockQuantity *int
	IsFeatured    *bool
	IsNew         *bool
}

type ListOptions struct {
	Search   *string
	Featured *bool
	InStock  *bool
	Limit    *int32
	Page     *int32
}
