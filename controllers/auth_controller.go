package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/middleware"
	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
	"github.com/shopgram/shopgram_backend/utils"
)

// initData older than this is rejected to limit replay
const initDataMaxAge = 24 * time.Hour

type AuthController struct {
	Users *repositories.UserRepository
}

func NewAuthController(users *repositories.UserRepository) *AuthController {
	return &AuthController{Users: users}
}

// TelegramLogin verifies the mini-app's signed initData and exchanges it for
// a session token. First login creates the user record.
func (ac *AuthController) TelegramLogin(c echo.Context) error {
	var req models.TelegramLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "initData is required",
		})
	}

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Printf("TELEGRAM_BOT_TOKEN not configured; cannot verify logins")
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Login is not configured on this server",
		})
	}

	tgUser, err := utils.VerifyInitData(req.InitData, botToken, initDataMaxAge)
	if err != nil {
		log.Printf("Rejected Telegram login: %v", err)
		status := http.StatusUnauthorized
		message := "Telegram authentication failed"
		if errors.Is(err, utils.ErrInitDataExpired) {
			message = "Login session expired, please reopen the app"
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: message,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.Users.GetOrCreateFromTelegram(ctx, tgUser)
	if err != nil {
		log.Printf("Failed to upsert user %d: %v", tgUser.ID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to sign in",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "This account has been deactivated",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.TelegramID, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create session",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.TelegramLoginResponse{
			Token: token,
			User:  user,
		},
	})
}

// GetMe returns the authenticated user's record
func (ac *AuthController) GetMe(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch user",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// Logout blacklists the presented token until it expires on its own
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No token provided",
		})
	}

	expiry := time.Now().Add(30 * 24 * time.Hour)
	if claims, err := middleware.ParseJWT(token); err == nil && claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(token, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}
