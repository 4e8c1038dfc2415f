package handlers

import (
	"net/http"
	"strconv"
	"time"

	"organicstore-be/internal/product"
	"organicstore-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type createProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Discount      int             `json:"discount"`
	StockQuantity int             `json:"stockQuantity"`
	IsFeatured    bool            `json:"isFeatured"`
	IsNew         bool            `json:"isNew"`
}

type updateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Discount      *int             `json:"discount"`
	StockQuantity *int             `json:"stockQuantity"`
	IsFeatured    *bool            `json:"isFeatured"`
	IsNew         *bool            `json:"isNew"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type productResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Discount        int             `json:"discount"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	StockQuantity   int             `json:"stockQuantity"`
	IsFeatured      bool            `json:"isFeatured"`
	InStock         bool            `json:"inStock"`
	IsNew           bool            `json:"isNew"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		Discount:        p.Discount,
		DiscountedPrice: p.DiscountedPrice,
		StockQuantity:   p.StockQuantity,
		IsFeatured:      p.IsFeatured,
		InStock:         p.InStock,
		IsNew:           p.IsNew,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductList(ps []*product.Product) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductResponse(p))
	}
	return out
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	opts := product.ListOptions{}
	opts.Limit, opts.Page = queryPagination(c)

	if search := c.Query("search"); search != "" {
		opts.Search = utils.StrPtr(search)
	}
	if raw := c.Query("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			opts.Featured = &v
		}
	}
	if raw := c.Query("inStock"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			opts.InStock = &v
		}
	}

	products, total, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": toProductList(products),
		"total":    total,
	})
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(p)})
}

// GET /api/products/slug/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(p)})
}

// POST /api/products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), product.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Discount:      req.Discount,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsNew:         req.IsNew,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": toProductResponse(p)})
}

// PUT /api/products/:id (admin)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, product.UpdateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Discount:      req.Discount,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsNew:         req.IsNew,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(p)})
}

// DELETE /api/products/:id (admin)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// PATCH /api/products/:id/stock (admin)
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.svc.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(p)})
}
