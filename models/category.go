// models/category.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ShopID       primitive.ObjectID `json:"shopId" bson:"shopId"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Color        string             `json:"color,omitempty" bson:"color,omitempty"`
	Icon         string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Order        int                `json:"order" bson:"order"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	ProductCount int                `json:"productCount" bson:"productCount"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SaveCategoryRequest is the create-or-update payload for categories
type SaveCategoryRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       string `json:"order,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}
