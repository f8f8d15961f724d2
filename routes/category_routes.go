package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterCategoryRoutes sets up the shop-scoped category routes
func RegisterCategoryRoutes(e *echo.Echo, deps *Deps) {
	categoryController := controllers.NewCategoryController(deps.Shops, deps.Categories, deps.Products)

	categories := e.Group("/api/shops/:shopId/categories")
	categories.Use(middleware.JWTMiddleware())

	categories.GET("", categoryController.GetCategories)
	categories.POST("", categoryController.SaveCategory)
	categories.DELETE("/:id", categoryController.DeleteCategory)
}
