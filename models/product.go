// models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLowStockThreshold applies when a product document carries no threshold
const DefaultLowStockThreshold = 5

// Product model. Category is stored by name, matching the storefront bot's
// query shape; renaming a category does not rewrite products.
type Product struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ShopID            primitive.ObjectID `json:"shopId" bson:"shopId"`
	Name              string             `json:"name" bson:"name"`
	Description       string             `json:"description,omitempty" bson:"description,omitempty"`
	Price             float64            `json:"price" bson:"price"`
	Stock             int                `json:"stock" bson:"stock"`
	Category          string             `json:"category,omitempty" bson:"category,omitempty"`
	SKU               string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Images            []string           `json:"images" bson:"images"`
	IsActive          bool               `json:"isActive" bson:"isActive"`
	LowStockThreshold int                `json:"lowStockThreshold" bson:"lowStockThreshold"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// LowOnStock reports whether the product is at or below its threshold
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// SaveProductRequest is the create-or-update payload for products. Price and
// stock arrive as text from the form editors and are coerced server-side.
type SaveProductRequest struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description,omitempty"`
	Price             string   `json:"price"`
	Stock             string   `json:"stock"`
	Category          string   `json:"category,omitempty"`
	SKU               string   `json:"sku,omitempty"`
	Images            []string `json:"images,omitempty"`
	IsActive          *bool    `json:"isActive,omitempty"`
	LowStockThreshold string   `json:"lowStockThreshold,omitempty"`
}
