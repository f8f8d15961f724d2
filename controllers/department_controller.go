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
	"github.com/shopgram/shopgram_backend/services"
	"github.com/shopgram/shopgram_backend/utils"
)

type DepartmentController struct {
	Shops       *repositories.ShopRepository
	Departments *repositories.DepartmentRepository
	Users       *repositories.UserRepository
	Telegram    *services.TelegramService
}

func NewDepartmentController(shops *repositories.ShopRepository, departments *repositories.DepartmentRepository, users *repositories.UserRepository, telegram *services.TelegramService) *DepartmentController {
	return &DepartmentController{Shops: shops, Departments: departments, Users: users, Telegram: telegram}
}

// GetDepartments lists the shop's notification departments in display order
func (dc *DepartmentController) GetDepartments(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, dc.Shops)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	departments, err := dc.Departments.FetchByShop(ctx, shop.ID, userID)
	if err != nil {
		log.Printf("Failed to list departments for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch departments",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Departments retrieved successfully",
		Data:    departments,
	})
}

// SaveDepartment creates or updates a department. When the editor asks for
// role defaults, the role's preset name and icon overwrite whatever was sent.
func (dc *DepartmentController) SaveDepartment(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, dc.Shops)
	if !ok {
		return nil
	}

	var req models.SaveDepartmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A chat ID and a valid role are required",
		})
	}

	department := models.Department{
		Name:              req.Name,
		TelegramChatID:    req.TelegramChatID,
		AdminChatID:       req.AdminChatID,
		Role:              req.Role,
		Icon:              req.Icon,
		IsActive:          true,
		NotificationTypes: req.NotificationTypes,
	}
	if req.ID != "" {
		id, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid department id",
			})
		}
		department.ID = id
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}
	department.Order, _ = utils.ParseInt(req.Order)

	if req.ApplyRoleDefaults || department.Name == "" {
		department.ApplyRoleDefaults()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	creating := department.ID.IsZero()
	saved, err := dc.Departments.Save(ctx, shop.ID, userID, department)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Department not found",
			})
		}
		log.Printf("Failed to save department for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save department",
		})
	}

	status := http.StatusOK
	message := "Department updated successfully"
	if creating {
		status = http.StatusCreated
		message = "Department created successfully"
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    saved,
	})
}

// DeleteDepartment removes a department from the shop
func (dc *DepartmentController) DeleteDepartment(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, dc.Shops)
	if !ok {
		return nil
	}
	departmentID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := dc.Departments.Delete(ctx, shop.ID, userID, departmentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Department not found",
			})
		}
		log.Printf("Failed to delete department %s: %v", departmentID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete department",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Department deleted successfully",
	})
}

// SendTestMessage delivers a fixed test notification to the department's chat
// so the owner can confirm the wiring before relying on it.
func (dc *DepartmentController) SendTestMessage(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, dc.Shops)
	if !ok {
		return nil
	}
	departmentID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	department, err := dc.Departments.GetByID(ctx, shop.ID, departmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Department not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch department",
		})
	}

	owner, err := dc.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch account",
		})
	}

	if err := dc.Telegram.SendTestMessage(owner.BotToken, department.TelegramChatID, department.Name); err != nil {
		log.Printf("Test dispatch to department %s failed: %v", department.Name, err)
		status := http.StatusBadGateway
		message := "Failed to deliver the test message"
		switch {
		case errors.Is(err, services.ErrNoBotToken):
			status = http.StatusBadRequest
			message = "No bot token configured. Save your bot token first."
		case errors.Is(err, services.ErrBadToken):
			status = http.StatusBadRequest
			message = "Telegram rejected the bot token. Check it and save it again."
		case errors.Is(err, services.ErrBadChatID):
			status = http.StatusBadRequest
			message = "Chat not found. Check the chat ID and make sure the bot was added to the chat."
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: message,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Test message delivered",
	})
}
