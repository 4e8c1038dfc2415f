package main

import (
	"log"

	"organicstore-be/internal/blog"
	"organicstore-be/internal/cart"
	"organicstore-be/internal/config"
	"organicstore-be/internal/contact"
	"organicstore-be/internal/db"
	"organicstore-be/internal/handlers"
	"organicstore-be/internal/logger"
	"organicstore-be/internal/order"
	"organicstore-be/internal/product"
	"organicstore-be/internal/setting"
	"organicstore-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, order.Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFlatFee:       cfg.ShippingFlatFee,
		TaxRatePercent:        cfg.TaxRatePercent,
	})

	contactRepo := contact.NewRepository(database)
	contactSvc := contact.NewService(contactRepo)

	settingRepo := setting.NewRepository(database)
	settingSvc := setting.NewService(settingRepo)

	blogRepo := blog.NewRepository(database)
	blogSvc := blog.NewService(blogRepo)

	router := handlers.NewRouter(handlers.Handlers{
		Auth:    handlers.NewAuthHandler(userSvc),
		Product: handlers.NewProductHandler(productSvc),
		Cart:    handlers.NewCartHandler(cartSvc),
		Order:   handlers.NewOrderHandler(orderSvc),
		Contact: handlers.NewContactHandler(contactSvc),
		Setting: handlers.NewSettingHandler(settingSvc),
		Blog:    handlers.NewBlogHandler(blogSvc),
	}, cfg.CORSOrigins)

	log.Printf("🚀 API server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(router.Run(":" + cfg.AppPort))
}
