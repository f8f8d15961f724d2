// models/department.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department roles
const (
	DepartmentRoleCashier  = "cashier"
	DepartmentRoleDelivery = "delivery"
	DepartmentRoleAdmin    = "admin"
	DepartmentRoleSales    = "sales"
	DepartmentRoleShop     = "shop"
)

// Department is a named Telegram chat destination used for notification routing
type Department struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ShopID            primitive.ObjectID `json:"shopId" bson:"shopId"`
	UserID            primitive.ObjectID `json:"userId" bson:"userId"`
	Name              string             `json:"name" bson:"name"`
	TelegramChatID    string             `json:"telegramChatId" bson:"telegramChatId"`
	AdminChatID       string             `json:"adminChatId,omitempty" bson:"adminChatId,omitempty"`
	Role              string             `json:"role" bson:"role"`
	Order             int                `json:"order" bson:"order"`
	Icon              string             `json:"icon,omitempty" bson:"icon,omitempty"`
	IsActive          bool               `json:"isActive" bson:"isActive"`
	NotificationTypes []string           `json:"notificationTypes" bson:"notificationTypes"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RoleDefault is the (name, icon) pair a role selection fills in
type RoleDefault struct {
	Name string
	Icon string
}

// DepartmentRoleDefaults maps a role to the name and icon the editor fills in
// when the role is selected.
var DepartmentRoleDefaults = map[string]RoleDefault{
	DepartmentRoleCashier:  {Name: "Cashier", Icon: "💰"},
	DepartmentRoleDelivery: {Name: "Delivery", Icon: "🚚"},
	DepartmentRoleAdmin:    {Name: "Admin", Icon: "👨‍💼"},
	DepartmentRoleSales:    {Name: "Sales", Icon: "📢"},
	DepartmentRoleShop:     {Name: "Shop", Icon: "🏪"},
}

// ApplyRoleDefaults overwrites Name and Icon from the role mapping table.
// Only those two fields change; everything else on the department is kept.
// Unknown roles are left untouched.
func (d *Department) ApplyRoleDefaults() {
	def, ok := DepartmentRoleDefaults[d.Role]
	if !ok {
		return
	}
	d.Name = def.Name
	d.Icon = def.Icon
}

// WantsNotification reports whether the department subscribed to the given
// notification type. An empty list means the department takes everything.
func (d *Department) WantsNotification(notifType string) bool {
	if len(d.NotificationTypes) == 0 {
		return true
	}
	for _, t := range d.NotificationTypes {
		if t == notifType {
			return true
		}
	}
	return false
}

// SaveDepartmentRequest is the create-or-update payload for departments
type SaveDepartmentRequest struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name,omitempty"`
	TelegramChatID    string   `json:"telegramChatId" validate:"required"`
	AdminChatID       string   `json:"adminChatId,omitempty"`
	Role              string   `json:"role" validate:"required,oneof=cashier delivery admin sales shop"`
	Order             string   `json:"order,omitempty"`
	Icon              string   `json:"icon,omitempty"`
	IsActive          *bool    `json:"isActive,omitempty"`
	NotificationTypes []string `json:"notificationTypes,omitempty"`
	ApplyRoleDefaults bool     `json:"applyRoleDefaults,omitempty"`
}
