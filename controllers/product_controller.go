package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
	"github.com/shopgram/shopgram_backend/services"
	"github.com/shopgram/shopgram_backend/utils"
)

type ProductController struct {
	DB          *mongo.Client
	Shops       *repositories.ShopRepository
	Products    *repositories.ProductRepository
	Categories  *repositories.CategoryRepository
	Departments *repositories.DepartmentRepository
	Users       *repositories.UserRepository
	Telegram    *services.TelegramService
}

func NewProductController(db *mongo.Client, shops *repositories.ShopRepository, products *repositories.ProductRepository, categories *repositories.CategoryRepository, departments *repositories.DepartmentRepository, users *repositories.UserRepository, telegram *services.TelegramService) *ProductController {
	return &ProductController{
		DB:          db,
		Shops:       shops,
		Products:    products,
		Categories:  categories,
		Departments: departments,
		Users:       users,
		Telegram:    telegram,
	}
}

// GetProducts lists the shop's products, newest first
func (pc *ProductController) GetProducts(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, pc.Shops)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	products, err := pc.Products.FetchByShop(ctx, shop.ID)
	if err != nil {
		log.Printf("Failed to list products for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch products",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// GetProduct returns a single product from the shop
func (pc *ProductController) GetProduct(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, pc.Shops)
	if !ok {
		return nil
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := pc.Products.GetByID(ctx, shop.ID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch product",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// SaveProduct creates or updates a product. Numeric fields arrive as text
// from the editor; anything unparseable becomes zero rather than an error.
func (pc *ProductController) SaveProduct(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, pc.Shops)
	if !ok {
		return nil
	}

	var req models.SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Product name is required",
		})
	}

	product, err := productFromRequest(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	creating := product.ID.IsZero()
	saved, err := pc.Products.Save(ctx, shop.ID, product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Product not found",
			})
		}
		log.Printf("Failed to save product for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save product",
		})
	}

	if saved.IsActive && saved.LowOnStock() {
		go pc.alertLowStock(shop, userID, saved)
	}
	go pc.refreshCounters(shop.ID, saved.Category)

	status := http.StatusOK
	message := "Product updated successfully"
	if creating {
		status = http.StatusCreated
		message = "Product created successfully"
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    saved,
	})
}

// DeleteProduct removes a product from the shop
func (pc *ProductController) DeleteProduct(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, pc.Shops)
	if !ok {
		return nil
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := pc.Products.GetByID(ctx, shop.ID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch product",
		})
	}

	if err := pc.Products.Delete(ctx, shop.ID, productID); err != nil {
		log.Printf("Failed to delete product %s: %v", productID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete product",
		})
	}

	go pc.refreshCounters(shop.ID, product.Category)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product deleted successfully",
	})
}

// UploadProductImage stores an image, generates its thumbnail and appends the
// URL to the product's image list
func (pc *ProductController) UploadProductImage(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, pc.Shops)
	if !ok {
		return nil
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No image file provided",
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

	imageURL, err := utils.UploadImage(data, file.Filename, "products")
	if err != nil {
		log.Printf("Failed to store product image: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store image",
		})
	}

	thumbnailURL, err := utils.CreateThumbnail(data, file.Filename)
	if err != nil {
		// Thumbnail failures are not fatal, the full image still works
		log.Printf("Failed to create thumbnail for %s: %v", file.Filename, err)
		thumbnailURL = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pc.Products.AddImage(ctx, shop.ID, productID, imageURL); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save image",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Image uploaded successfully",
		Data: map[string]string{
			"imageUrl":     imageURL,
			"thumbnailUrl": thumbnailURL,
		},
	})
}

// productFromRequest coerces the editor payload into a product. Text numbers
// that fail to parse default to zero, mirroring how the editors clear fields.
func productFromRequest(req models.SaveProductRequest) (models.Product, error) {
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SKU:         req.SKU,
		Images:      req.Images,
		IsActive:    true,
	}

	if req.ID != "" {
		id, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid product id")
		}
		product.ID = id
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	product.Price, _ = utils.ParseFloat(req.Price)
	product.Stock, _ = utils.ParseInt(req.Stock)

	product.LowStockThreshold = models.DefaultLowStockThreshold
	if req.LowStockThreshold != "" {
		if threshold, err := utils.ParseInt(req.LowStockThreshold); err == nil {
			product.LowStockThreshold = threshold
		}
	}

	if product.Price < 0 {
		return models.Product{}, fmt.Errorf("price cannot be negative")
	}
	if product.Stock < 0 {
		return models.Product{}, fmt.Errorf("stock cannot be negative")
	}

	return product, nil
}

// alertLowStock fans a low-stock warning out to the owner (in-app and email)
// and to every active department subscribed to low_stock alerts. Best effort:
// failures are logged, never surfaced to the save call.
func (pc *ProductController) alertLowStock(shop models.Shop, userID primitive.ObjectID, product models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	owner, err := pc.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Low stock alert: failed to load owner %s: %v", userID.Hex(), err)
		return
	}

	utils.NotifyLowStock(pc.DB, owner, shop, product)

	departments, err := pc.Departments.FetchForNotification(ctx, shop.ID, models.NotificationTypeLowStock)
	if err != nil {
		log.Printf("Low stock alert: failed to load departments for shop %s: %v", shop.ID.Hex(), err)
		return
	}

	text := fmt.Sprintf("⚠️ <b>Low stock</b>\n\n%s is down to %d left (threshold %d).\nShop: %s",
		product.Name, product.Stock, product.LowStockThreshold, shop.Name)

	for _, department := range departments {
		if err := pc.Telegram.SendMessage(owner.BotToken, department.TelegramChatID, text); err != nil {
			log.Printf("Low stock alert: dispatch to department %s failed: %v", department.Name, err)
		}
	}
}

// refreshCounters recomputes the advisory shop and category product counters
// after a save or delete. Failures are logged, the counters stay stale until
// the next write.
func (pc *ProductController) refreshCounters(shopID primitive.ObjectID, categoryName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := pc.Products.CountActive(ctx, shopID)
	if err != nil {
		log.Printf("Failed to count products for shop %s: %v", shopID.Hex(), err)
	} else {
		pc.Shops.RefreshProductCount(ctx, shopID, total)
	}

	if categoryName == "" {
		return
	}
	count, err := pc.Products.CountByCategoryName(ctx, shopID, categoryName)
	if err != nil {
		log.Printf("Failed to count products in category %q: %v", categoryName, err)
		return
	}
	pc.Categories.RefreshProductCount(ctx, shopID, categoryName, count)
}
