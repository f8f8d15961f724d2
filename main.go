package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/middleware"
	"github.com/shopgram/shopgram_backend/routes"
	"github.com/shopgram/shopgram_backend/utils"
	"github.com/shopgram/shopgram_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (lookup cache; the API works without it)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	deps := routes.NewDeps(client)

	// Create the live-sync hub
	wsHub := websocket.NewHub(client.Database(config.DatabaseName()), deps.Shops, websocket.SnapshotSource{
		Products:    deps.Products,
		Categories:  deps.Categories,
		Departments: deps.Departments,
	})
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.DashboardSecurityConfig()))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Shopgram Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Register routes
	routes.RegisterAuthRoutes(e, deps)
	routes.RegisterUserRoutes(e, deps)
	routes.RegisterShopRoutes(e, deps)
	routes.RegisterProductRoutes(e, deps)
	routes.RegisterCategoryRoutes(e, deps)
	routes.RegisterDepartmentRoutes(e, deps)
	routes.RegisterOrderRoutes(e, deps)

	// Live dashboard updates; the JWT travels as a query parameter
	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, wsHub)
	})

	// Drop expired tokens from the logout blacklist
	go middleware.CleanupBlacklist()

	// Ensure upload directories exist
	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
