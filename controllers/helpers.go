package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/middleware"
	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
)

// requireOwnedShop resolves the :shopId path parameter against the session
// user's shops. When ok is false the error response has already been written
// and the handler should return nil.
func requireOwnedShop(c echo.Context, shops *repositories.ShopRepository) (models.Shop, primitive.ObjectID, bool) {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return models.Shop{}, primitive.NilObjectID, false
	}

	shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid shop ID",
		})
		return models.Shop{}, primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shop, err := shops.GetOwned(ctx, shopID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Shop not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to fetch shop",
			})
		}
		return models.Shop{}, primitive.NilObjectID, false
	}

	return shop, userID, true
}

// objectIDParam parses an ObjectID path parameter. When ok is false the 400
// response has already been written.
func objectIDParam(c echo.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid " + name,
		})
		return primitive.NilObjectID, false
	}
	return id, true
}
