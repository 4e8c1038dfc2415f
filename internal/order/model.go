package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ParseStatus validates a client-supplied status name.
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are allowed out of the
// status. Delivered and cancelled orders stay where they are.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID           uint
	OrderNumber  string
	UserID       uint
	Status       OrderStatus
	PaymentMeth  string
	Notes        string
	IsPaid       bool
	PaidAt       *time.Time
	IsDelivered  bool
	DeliveredAt  *time.Time
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	ShippingAddr ShippingAddress
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is an immutable snapshot of a cart line taken at checkout;
// it never tracks later product edits. The product reference is kept for
// display and stock restoration only.
type OrderItem struct {
	ID          uint
	OrderID     uint
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ShippingAddress is embedded into the order as a value copy.
type ShippingAddress struct {
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

type CreateOrderParams struct {
	UserID          uint
	PaymentMethod   string
	Notes           string
	ShippingAddress ShippingAddress
}

type ListOptions struct {
	Status *string
	Limit  *int32
	Page   *int32
}
