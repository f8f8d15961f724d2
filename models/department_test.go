package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRoleDefaults(t *testing.T) {
	department := Department{
		Name:           "whatever the user typed",
		Role:           DepartmentRoleCashier,
		TelegramChatID: "-100123",
		Order:          7,
	}
	department.ApplyRoleDefaults()

	assert.Equal(t, "Cashier", department.Name)
	assert.Equal(t, "💰", department.Icon)
	// Everything outside name and icon is untouched
	assert.Equal(t, "-100123", department.TelegramChatID)
	assert.Equal(t, 7, department.Order)
}

func TestApplyRoleDefaultsUnknownRole(t *testing.T) {
	department := Department{Name: "Custom", Icon: "🎯", Role: "concierge"}
	department.ApplyRoleDefaults()

	assert.Equal(t, "Custom", department.Name)
	assert.Equal(t, "🎯", department.Icon)
}

func TestDepartmentRoleDefaultsTable(t *testing.T) {
	expected := map[string]RoleDefault{
		DepartmentRoleCashier:  {Name: "Cashier", Icon: "💰"},
		DepartmentRoleDelivery: {Name: "Delivery", Icon: "🚚"},
		DepartmentRoleAdmin:    {Name: "Admin", Icon: "👨‍💼"},
		DepartmentRoleSales:    {Name: "Sales", Icon: "📢"},
		DepartmentRoleShop:     {Name: "Shop", Icon: "🏪"},
	}
	assert.Equal(t, expected, DepartmentRoleDefaults)
}

func TestWantsNotification(t *testing.T) {
	all := Department{}
	assert.True(t, all.WantsNotification(NotificationTypeOrderStatus))
	assert.True(t, all.WantsNotification(NotificationTypeLowStock))

	ordersOnly := Department{NotificationTypes: []string{NotificationTypeOrderStatus}}
	assert.True(t, ordersOnly.WantsNotification(NotificationTypeOrderStatus))
	assert.False(t, ordersOnly.WantsNotification(NotificationTypeLowStock))
}
