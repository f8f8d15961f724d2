package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterUserRoutes sets up profile and bot credential routes
func RegisterUserRoutes(e *echo.Echo, deps *Deps) {
	userController := controllers.NewUserController(deps.DB, deps.Users)

	me := e.Group("/api/me")
	me.Use(middleware.JWTMiddleware())
	me.PUT("/profile", userController.UpdateProfile)
	me.POST("/bot-token", userController.SaveBotToken)
	me.GET("/notifications", userController.GetNotifications)
	me.PUT("/notifications/read", userController.MarkNotificationsRead)
}
