package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/shopgram/shopgram_backend/controllers"
	"github.com/shopgram/shopgram_backend/middleware"
)

// RegisterAuthRoutes sets up login, logout and session routes
func RegisterAuthRoutes(e *echo.Echo, deps *Deps) {
	authController := controllers.NewAuthController(deps.Users)

	auth := e.Group("/api/auth")
	auth.POST("/telegram", authController.TelegramLogin)

	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)

	me := e.Group("/api/me")
	me.Use(middleware.JWTMiddleware())
	me.GET("", authController.GetMe)
}
