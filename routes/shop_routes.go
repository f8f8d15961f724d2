package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterShopRoutes sets up all shop-related routes
func RegisterShopRoutes(e *echo.Echo, deps *Deps) {
	shopController := controllers.NewShopController(deps.Shops, deps.Products, deps.Orders)

	shops := e.Group("/api/shops")
	shops.Use(middleware.JWTMiddleware())

	shops.GET("", shopController.GetShops)
	shops.POST("", shopController.SaveShop)
	shops.GET("/:shopId", shopController.GetShop)
	shops.DELETE("/:shopId", shopController.DeleteShop)
	shops.POST("/:shopId/logo", shopController.UploadLogo)
	shops.GET("/:shopId/stats", shopController.GetShopStats)
	shops.GET("/:shopId/qrcode", shopController.GetShopQRCode)
}
