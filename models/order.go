// models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderCustomer is the denormalized customer snapshot written by the
// storefront bot at order time.
type OrderCustomer struct {
	TelegramID int64  `json:"telegramId" bson:"telegramId"`
	Username   string `json:"username,omitempty" bson:"username,omitempty"`
	FirstName  string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty" bson:"lastName,omitempty"`
}

// OrderItem is a denormalized product line
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Order model
type Order struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ShopID      primitive.ObjectID `json:"shopId" bson:"shopId"`
	OrderNumber string             `json:"orderNumber" bson:"orderNumber"`
	Customer    OrderCustomer      `json:"customer" bson:"customer"`
	Items       []OrderItem        `json:"items" bson:"items"`
	TotalAmount float64            `json:"totalAmount" bson:"totalAmount"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UpdateOrderStatusRequest changes an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed delivered cancelled"`
}
