package handlers

import (
	"net/http"
	"time"

	"organicstore-be/internal/order"
	"organicstore-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type shippingAddressPayload struct {
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type createOrderRequest struct {
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	Notes           string                 `json:"notes"`
	ShippingAddress shippingAddressPayload `json:"shippingAddress" binding:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updateOrderPaymentRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

type orderItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID           uint                   `json:"id"`
	OrderNumber  string                 `json:"orderNumber"`
	UserID       uint                   `json:"userId"`
	Status       string                 `json:"status"`
	PaymentMeth  string                 `json:"paymentMethod"`
	Notes        string                 `json:"notes,omitempty"`
	IsPaid       bool                   `json:"isPaid"`
	PaidAt       *string                `json:"paidAt,omitempty"`
	IsDelivered  bool                   `json:"isDelivered"`
	DeliveredAt  *string                `json:"deliveredAt,omitempty"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	ShippingCost decimal.Decimal        `json:"shippingCost"`
	Tax          decimal.Decimal        `json:"tax"`
	Total        decimal.Decimal        `json:"total"`
	ShippingAddr shippingAddressPayload `json:"shippingAddress"`
	Items        []orderItemResponse    `json:"items,omitempty"`
	CreatedAt    string                 `json:"createdAt"`
	UpdatedAt    string                 `json:"updatedAt"`
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return utils.StrPtr(t.Format(time.RFC3339))
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return orderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		PaymentMeth: o.PaymentMeth,
		Notes:       o.Notes,
		IsPaid:      o.IsPaid,
		PaidAt:      fmtTimePtr(o.PaidAt),
		IsDelivered: o.IsDelivered,
		DeliveredAt: fmtTimePtr(o.DeliveredAt),
		Subtotal:    o.Subtotal,
		ShippingCost: o.ShippingCost,
		Tax:          o.Tax,
		Total:        o.Total,
		ShippingAddr: shippingAddressPayload{
			FullName:     o.ShippingAddr.FullName,
			Phone:        o.ShippingAddr.Phone,
			AddressLine1: o.ShippingAddr.AddressLine1,
			AddressLine2: o.ShippingAddr.AddressLine2,
			City:         o.ShippingAddr.City,
			State:        o.ShippingAddr.State,
			PostalCode:   o.ShippingAddr.PostalCode,
			Country:      o.ShippingAddr.Country,
		},
		Items:     items,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}

func toOrderList(orders []*order.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, _ := currentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.svc.Create(c.Request.Context(), order.CreateOrderParams{
		UserID:        userID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		ShippingAddress: order.ShippingAddress{
			FullName:     req.ShippingAddress.FullName,
			Phone:        req.ShippingAddress.Phone,
			AddressLine1: req.ShippingAddress.AddressLine1,
			AddressLine2: req.ShippingAddress.AddressLine2,
			City:         req.ShippingAddress.City,
			State:        req.ShippingAddress.State,
			PostalCode:   req.ShippingAddress.PostalCode,
			Country:      req.ShippingAddress.Country,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": toOrderResponse(o)})
}

// GET /api/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, _ := currentUser(c)
	limit, page := queryPagination(c)

	orders, total, err := h.svc.ListMine(c.Request.Context(), userID, limit, page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": toOrderList(orders),
		"total":  total,
	})
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, _ := currentUser(c)

	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	o, err := h.svc.GetByID(c.Request.Context(), userID, orderID, isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

// GET /api/admin/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	opts := order.ListOptions{}
	opts.Limit, opts.Page = queryPagination(c)

	if status := c.Query("status"); status != "" {
		opts.Status = utils.StrPtr(status)
	}

	orders, total, err := h.svc.ListAll(c.Request.Context(), opts, isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": toOrderList(orders),
		"total":  total,
	})
}

// PATCH /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.svc.UpdateStatus(c.Request.Context(), orderID, req.Status, isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

// PATCH /api/admin/orders/:id/payment
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateOrderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPaid == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.svc.UpdatePayment(c.Request.Context(), orderID, *req.IsPaid, isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(o)})
}

// DELETE /api/admin/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), orderID, isAdmin(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}
