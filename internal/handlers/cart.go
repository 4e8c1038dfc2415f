package handlers

import (
	"net/http"

	"organicstore-be/internal/cart"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type addCartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type cartItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSlug string          `json:"productSlug"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	ID            uint               `json:"id"`
	TotalPrice    decimal.Decimal    `json:"totalPrice"`
	ItemCount     int                `json:"itemCount"`
	TotalQuantity int                `json:"totalQuantity"`
	Items         []cartItemResponse `json:"items"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	totalQty := 0
	for _, item := range c.Items {
		totalQty += item.Quantity
		items = append(items, cartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSlug: item.ProductSlug,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return cartResponse{
		ID:            c.ID,
		TotalPrice:    c.TotalPrice,
		ItemCount:     len(items),
		TotalQuantity: totalQty,
		Items:         items,
	}
}

// GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := currentUser(c)

	userCart, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": toCartResponse(userCart)})
}

// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, _ := currentUser(c)

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userCart, err := h.svc.AddItem(c.Request.Context(), cart.AddItemParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": toCartResponse(userCart)})
}

// PUT /api/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, _ := currentUser(c)

	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userCart, err := h.svc.UpdateItem(c.Request.Context(), cart.UpdateItemParams{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": toCartResponse(userCart)})
}

// DELETE /api/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _ := currentUser(c)

	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	userCart, err := h.svc.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": toCartResponse(userCart)})
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, _ := currentUser(c)

	if err := h.svc.ClearCart(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
