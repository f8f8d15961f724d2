package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/repositories"
	"github.com/shopgram/shopgram_backend/services"
)

type OrderController struct {
	Shops       *repositories.ShopRepository
	Orders      *repositories.OrderRepository
	Departments *repositories.DepartmentRepository
	Users       *repositories.UserRepository
	Telegram    *services.TelegramService
}

func NewOrderController(shops *repositories.ShopRepository, orders *repositories.OrderRepository, departments *repositories.DepartmentRepository, users *repositories.UserRepository, telegram *services.TelegramService) *OrderController {
	return &OrderController{Shops: shops, Orders: orders, Departments: departments, Users: users, Telegram: telegram}
}

// GetOrders lists the shop's orders newest first, optionally filtered by the
// status query parameter
func (oc *OrderController) GetOrders(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, oc.Shops)
	if !ok {
		return nil
	}

	status := strings.TrimSpace(c.QueryParam("status"))
	switch status {
	case "", models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown order status filter",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.FetchByShop(ctx, shop.ID, status)
	if err != nil {
		log.Printf("Failed to list orders for shop %s: %v", shop.ID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch orders",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Orders retrieved successfully",
		Data:    orders,
	})
}

// GetOrder returns a single order from the shop
func (oc *OrderController) GetOrder(c echo.Context) error {
	shop, _, ok := requireOwnedShop(c, oc.Shops)
	if !ok {
		return nil
	}
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.GetByID(ctx, shop.ID, orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch order",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}

// UpdateOrderStatus moves an order to a new status and notifies the
// departments subscribed to order updates
func (oc *OrderController) UpdateOrderStatus(c echo.Context) error {
	shop, userID, ok := requireOwnedShop(c, oc.Shops)
	if !ok {
		return nil
	}
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return nil
	}

	var req models.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be one of pending, confirmed, delivered, cancelled",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := oc.Orders.UpdateStatus(ctx, shop.ID, orderID, req.Status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Order not found",
			})
		}
		log.Printf("Failed to update order %s: %v", orderID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update order",
		})
	}

	go oc.notifyOrderStatus(shop, userID, order)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

// notifyOrderStatus fans the status change out to every active department
// subscribed to order updates. Best effort; delivery failures only get logged.
func (oc *OrderController) notifyOrderStatus(shop models.Shop, userID primitive.ObjectID, order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	departments, err := oc.Departments.FetchForNotification(ctx, shop.ID, models.NotificationTypeOrderStatus)
	if err != nil {
		log.Printf("Order notification: failed to load departments for shop %s: %v", shop.ID.Hex(), err)
		return
	}
	if len(departments) == 0 {
		return
	}

	owner, err := oc.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Order notification: failed to load owner %s: %v", userID.Hex(), err)
		return
	}

	customer := order.Customer.FirstName
	if order.Customer.Username != "" {
		customer = fmt.Sprintf("%s (@%s)", customer, order.Customer.Username)
	}

	text := fmt.Sprintf("📦 <b>Order %s</b> is now <b>%s</b>\n\nCustomer: %s\nTotal: %.2f %s",
		order.OrderNumber, order.Status, customer, order.TotalAmount, shop.Settings.Currency)

	for _, department := range departments {
		if err := oc.Telegram.SendMessage(owner.BotToken, department.TelegramChatID, text); err != nil {
			log.Printf("Order notification: dispatch to department %s failed: %v", department.Name, err)
		}
	}
}
