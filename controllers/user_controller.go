package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/middleware"
	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
)

type UserController struct {
	DB    *mongo.Client
	Users *repositories.UserRepository
}

func NewUserController(db *mongo.Client, users *repositories.UserRepository) *UserController {
	return &UserController{DB: db, Users: users}
}

// UpdateProfile edits the user's own profile fields
func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := uc.Users.UpdateProfile(ctx, userID, req)
	if err != nil {
		log.Printf("Failed to update profile for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// SaveBotToken stores the owner's Telegram bot credential. The token is
// write-only: it never appears in API responses.
func (uc *UserController) SaveBotToken(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.SaveBotTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	req.BotToken = strings.TrimSpace(req.BotToken)
	if err := c.Validate(&req); err != nil || !looksLikeBotToken(req.BotToken) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "That does not look like a bot token. Expected format: 123456789:ABC...",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.Users.SaveBotToken(ctx, userID, req.BotToken); err != nil {
		log.Printf("Failed to save bot token for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save bot token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bot token saved successfully",
	})
}

// GetNotifications returns the user's in-app notifications, newest first
func (uc *UserController) GetNotifications(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "notifications")
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100)
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Printf("Failed to fetch notifications for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkNotificationsRead flags all of the user's notifications as read
func (uc *UserController) MarkNotificationsRead(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "notifications")
	_, err := collection.UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		log.Printf("Failed to mark notifications read for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications marked as read",
	})
}

// looksLikeBotToken does a shape check only; the token is proven against the
// Telegram API on first dispatch.
func looksLikeBotToken(token string) bool {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || len(parts[1]) < 30 {
		return false
	}
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(parts[0]) > 0
}
