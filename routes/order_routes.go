package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterOrderRoutes sets up the shop-scoped order routes
func RegisterOrderRoutes(e *echo.Echo, deps *Deps) {
	orderController := controllers.NewOrderController(deps.Shops, deps.Orders, deps.Departments, deps.Users, deps.Telegram)

	orders := e.Group("/api/shops/:shopId/orders")
	orders.Use(middleware.JWTMiddleware())

	orders.GET("", orderController.GetOrders)
	orders.GET("/:id", orderController.GetOrder)
	orders.PUT("/:id/status", orderController.UpdateOrderStatus)
}
