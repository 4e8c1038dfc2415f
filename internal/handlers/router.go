package handlers

import (
	"net/http"
	"time"

	"organicstore-be/internal/logger"
	"organicstore-be/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP surface for router wiring.
type Handlers struct {
	Auth    *AuthHandler
	Product *ProductHandler
	Cart    *CartHandler
	Order   *OrderHandler
	Contact *ContactHandler
	Setting *SettingHandler
	Blog    *BlogHandler
}

// NewRouter builds the gin engine with the full route table and the shared
// middleware chain (request id, request logging, CORS, rate limiting, JWT).
func NewRouter(h Handlers, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RateLimitGeneral())
	r.Use(middleware.Auth())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimitStrict(), h.Auth.Register)
		auth.POST("/login", middleware.RateLimitStrict(), h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.Auth.Me)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/slug/:slug", h.Product.GetBySlug)

		products.POST("", middleware.RequireAdmin(), h.Product.Create)
		products.PUT("/:id", middleware.RequireAdmin(), h.Product.Update)
		products.DELETE("/:id", middleware.RequireAdmin(), h.Product.Delete)
		products.PATCH("/:id/stock", middleware.RequireAdmin(), h.Product.AdjustStock)
	}

	cart := api.Group("/cart", middleware.RequireAuth())
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:id", h.Cart.UpdateItem)
		cart.DELETE("/items/:id", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
	}

	orders := api.Group("/orders", middleware.RequireAuth())
	{
		orders.POST("", h.Order.Create)
		orders.GET("", h.Order.ListMine)
		orders.GET("/:id", h.Order.Get)
	}

	api.POST("/contacts", middleware.RateLimitStrict(), h.Contact.Create)

	blogs := api.Group("/blogs")
	{
		blogs.GET("", h.Blog.List)
		blogs.GET("/:id", h.Blog.Get)
		blogs.GET("/slug/:slug", h.Blog.GetBySlug)
	}

	configs := api.Group("/configs")
	{
		configs.GET("", h.Setting.List)
		configs.GET("/:key", h.Setting.Get)
	}

	admin := api.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/orders", h.Order.ListAll)
		admin.PATCH("/orders/:id/status", h.Order.UpdateStatus)
		admin.PATCH("/orders/:id/payment", h.Order.UpdatePayment)
		admin.DELETE("/orders/:id", h.Order.Delete)

		admin.GET("/contacts", h.Contact.List)
		admin.GET("/contacts/:id", h.Contact.Get)
		admin.PATCH("/contacts/:id/status", h.Contact.UpdateStatus)
		admin.DELETE("/contacts/:id", h.Contact.Delete)

		admin.POST("/blogs", h.Blog.Create)
		admin.PUT("/blogs/:id", h.Blog.Update)
		admin.DELETE("/blogs/:id", h.Blog.Delete)

		admin.POST("/configs", h.Setting.Create)
		admin.PUT("/configs/:id", h.Setting.Update)
		admin.DELETE("/configs/:id", h.Setting.Delete)
	}

	return r
}
