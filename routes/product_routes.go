package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterProductRoutes sets up the shop-scoped product routes
func RegisterProductRoutes(e *echo.Echo, deps *Deps) {
	productController := controllers.NewProductController(
		deps.DB, deps.Shops, deps.Products, deps.Categories, deps.Departments, deps.Users, deps.Telegram)

	products := e.Group("/api/shops/:shopId/products")
	products.Use(middleware.JWTMiddleware())

	products.GET("", productController.GetProducts)
	products.POST("", productController.SaveProduct)
	products.GET("/:id", productController.GetProduct)
	products.DELETE("/:id", productController.DeleteProduct)
	products.POST("/:id/image", productController.UploadProductImage)
}
