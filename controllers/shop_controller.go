package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/middleware"
	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
	"github.com/shopgram/shopgram_backend/utils"
)

type ShopController struct {
	Shops    *repositories.ShopRepository
	Products *repositories.ProductRepository
	Orders   *repositories.OrderRepository
}

func NewShopController(shops *repositories.ShopRepository, products *repositories.ProductRepository, orders *repositories.OrderRepository) *ShopController {
	return &ShopController{Shops: shops, Products: products, Orders: orders}
}

// GetShops lists the authenticated user's shops, newest first
func (sc *ShopController) GetShops(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shops, err := sc.Shops.FetchByOwner(ctx, userID)
	if err != nil {
		log.Printf("Failed to list shops for %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch shops",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shops retrieved successfully",
		Data:    shops,
	})
}

// GetShop returns a single owned shop
func (sc *ShopController) GetShop(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, sc.Shops)
	if !ok {
		return nil
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shop retrieved successfully",
		Data:    shop,
	})
}

// SaveShop creates a shop when the payload has no ID, updates it otherwise
func (sc *ShopController) SaveShop(c echo.Context) error {
	userID := middleware.GetUserIDFromToken(c)
	if userID.IsZero() {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.SaveShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Shop name is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	creating := req.ID == ""
	shop, err := sc.Shops.Save(ctx, userID, req)
	if err != nil {
		log.Printf("Failed to save shop for %s: %v", userID.Hex(), err)
		status := http.StatusInternalServerError
		message := "Failed to save shop"
		if !creating && errors.Is(err, mongo.ErrNoDocuments) {
			status = http.StatusNotFound
			message = "Shop not found"
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: message,
		})
	}

	status := http.StatusOK
	message := "Shop updated successfully"
	if creating {
		status = http.StatusCreated
		message = "Shop created successfully"
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    shop,
	})
}

// DeleteShop removes the shop document. Products, categories and departments
// under it are intentionally left in place.
func (sc *ShopController) DeleteShop(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, sc.Shops)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sc.Shops.Delete(ctx, shop.ID, userID); err != nil {
		log.Printf("Failed to delete shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete shop",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shop deleted successfully",
	})
}

// UploadLogo accepts a multipart image and stores it as the shop's logo
func (sc *ShopController) UploadLogo(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, sc.Shops)
	if !ok {
		return nil
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No logo file provided",
		})
	}

	if err := utils.ValidateImageType(file.Filename); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	logoURL, err := utils.UploadImage(data, file.Filename, "logos")
	if err != nil {
		log.Printf("Failed to store logo for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store logo",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sc.Shops.UpdateLogo(ctx, shop.ID, userID, logoURL); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save logo",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logo uploaded successfully",
		Data:    map[string]string{"logoUrl": logoURL},
	})
}

// GetShopStats recomputes the dashboard counters from current data. The
// stored copy on the shop document is refreshed as a side effect.
func (sc *ShopController) GetShopStats(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, sc.Shops)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := sc.Orders.FetchByShop(ctx, shop.ID, "")
	if err != nil {
		log.Printf("Failed to fetch orders for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute statistics",
		})
	}

	stats := repositories.ComputeOrderStats(orders)

	if count, err := sc.Products.CountActive(ctx, shop.ID); err == nil {
		stats.TotalProducts = count
	} else {
		log.Printf("Failed to count products for shop %s: %v", shop.ID.Hex(), err)
		stats.TotalProducts = shop.Stats.TotalProducts
	}

	sc.Shops.RefreshStats(ctx, shop.ID, stats)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Statistics retrieved successfully",
		Data:    stats,
	})
}

// GetShopQRCode renders the shop's storefront link as a QR code PNG,
// base64-encoded for direct embedding in an <img> tag.
func (sc *ShopController) GetShopQRCode(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, sc.Shops)
	if !ok {
		return nil
	}

	base := os.Getenv("MINIAPP_URL")
	if base == "" {
		base = "https://t.me"
	}
	content := fmt.Sprintf("%s?startapp=%s", base, shop.Slug)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated successfully",
		Data: map[string]string{
			"link":   content,
			"qrCode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		},
	})
}
