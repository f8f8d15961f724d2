package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
	"github.com/shopgram/shopgram_backend/utils"
)

type CategoryController struct {
	Shops      *repositories.ShopRepository
	Categories *repositories.CategoryRepository
	Products   *repositories.ProductRepository
}

func NewCategoryController(shops *repositories.ShopRepository, categories *repositories.CategoryRepository, products *repositories.ProductRepository) *CategoryController {
	return &CategoryController{Shops: shops, Categories: categories, Products: products}
}

// GetCategories lists the shop's categories in display order
func (cc *CategoryController) GetCategories(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, cc.Shops)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	categories, err := cc.Categories.FetchByShop(ctx, shop.ID, userID)
	if err != nil {
		log.Printf("Failed to list categories for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// SaveCategory creates or updates a category. Names must be unique within
// the shop.
func (cc *CategoryController) SaveCategory(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, cc.Shops)
	if !ok {
		return nil
	}

	var req models.SaveCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required",
		})
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    true,
	}
	if req.ID != "" {
		id, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid category id",
			})
		}
		category.ID = id
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.Order, _ = utils.ParseInt(req.Order)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cc.Categories.ExistsByName(ctx, shop.ID, category.Name, category.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save category",
		})
	}
	if exists {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A category with this name already exists",
		})
	}

	creating := category.ID.IsZero()
	saved, err := cc.Categories.Save(ctx, shop.ID, userID, category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		}
		log.Printf("Failed to save category for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save category",
		})
	}

	status := http.StatusOK
	message := "Category updated successfully"
	if creating {
		status = http.StatusCreated
		message = "Category created successfully"
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    saved,
	})
}

// DeleteCategory removes a category. Products keep their category name; the
// storefront simply stops grouping them.
func (cc *CategoryController) DeleteCategory(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, cc.Shops)
	if !ok {
		return nil
	}
	categoryID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cc.Categories.Delete(ctx, shop.ID, userID, categoryID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Category not found",
			})
		}
		log.Printf("Failed to delete category %s: %v", categoryID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete category",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category deleted successfully",
	})
}
