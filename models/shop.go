// models/shop.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shop model
type Shop struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Logo        string             `json:"logo,omitempty" bson:"logo,omitempty"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	Settings    ShopSettings       `json:"settings" bson:"settings"`
	Stats       ShopStats          `json:"stats" bson:"stats"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ShopSettings holds per-shop configuration
type ShopSettings struct {
	Currency      string  `json:"currency" bson:"currency"`
	TaxRate       float64 `json:"taxRate" bson:"taxRate"`
	BusinessHours string  `json:"businessHours,omitempty" bson:"businessHours,omitempty"`
	OrderPolicy   string  `json:"orderPolicy,omitempty" bson:"orderPolicy,omitempty"`
}

// ShopStats is the denormalized counter block stored on the shop document.
// The stored values are advisory; the stats endpoint recomputes from the
// products and orders collections.
type ShopStats struct {
	TotalProducts  int     `json:"totalProducts" bson:"totalProducts"`
	TotalOrders    int     `json:"totalOrders" bson:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue" bson:"totalRevenue"`
	TotalCustomers int     `json:"totalCustomers" bson:"totalCustomers"`
}

// SaveShopRequest is the create-or-update payload for shops
type SaveShopRequest struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description,omitempty"`
	IsActive    *bool        `json:"isActive,omitempty"`
	Settings    ShopSettings `json:"settings,omitempty"`
}
