// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User model. Identity comes from Telegram, so TelegramID is the natural key;
// the ObjectID exists for references from other collections.
type User struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TelegramID int64               `json:"telegramId" bson:"telegramId"`
	Username   string              `json:"username,omitempty" bson:"username,omitempty"`
	FirstName  string              `json:"firstName" bson:"firstName"`
	LastName   string              `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email      string              `json:"email,omitempty" bson:"email,omitempty"`
	Role       string              `json:"role" bson:"role"`
	IsActive   bool                `json:"isActive" bson:"isActive"`
	ShopID     *primitive.ObjectID `json:"shopId,omitempty" bson:"shopId,omitempty"`
	BotToken   string              `json:"-" bson:"botToken,omitempty"`
	PhotoURL   string              `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// HasBotToken is what the API exposes instead of the credential itself.
func (u *User) HasBotToken() bool {
	return u.BotToken != ""
}

// TelegramLoginRequest carries the raw initData string from the mini-app.
type TelegramLoginRequest struct {
	InitData string `json:"initData" validate:"required"`
}

// TelegramLoginResponse is returned on successful login
type TelegramLoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest models the editable profile fields
type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// SaveBotTokenRequest stores the owner's bot credential
type SaveBotTokenRequest struct {
	BotToken string `json:"botToken" validate:"required"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
