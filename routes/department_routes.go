package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterDepartmentRoutes sets up the shop-scoped notification department
// routes, including the dispatch test
func RegisterDepartmentRoutes(e *echo.Echo, deps *Deps) {
	departmentController := controllers.NewDepartmentController(deps.Shops, deps.Departments, deps.Users, deps.Telegram)

	departments := e.Group("/api/shops/:shopId/departments")
	departments.Use(middleware.JWTMiddleware())

	departments.GET("", departmentController.GetDepartments)
	departments.POST("", departmentController.SaveDepartment)
	departments.DELETE("/:id", departmentController.DeleteDepartment)
	departments.POST("/:id/test", departmentController.SendTestMessage)
}
