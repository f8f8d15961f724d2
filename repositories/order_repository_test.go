package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopgram/shopgram_backend/models"
)

func TestComputeOrderStats(t *testing.T) {
	orders := []models.Order{
		{TotalAmount: 10, Customer: models.OrderCustomer{TelegramID: 111}},
		{TotalAmount: 5, Customer: models.OrderCustomer{TelegramID: 111}},
		{TotalAmount: 7, Customer: models.OrderCustomer{TelegramID: 222}},
	}

	stats := ComputeOrderStats(orders)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 22.0, stats.TotalRevenue)
	// Repeat customers count once
	assert.Equal(t, 2, stats.TotalCustomers)
}

func TestComputeOrderStatsEmpty(t *testing.T) {
	stats := ComputeOrderStats(nil)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0, stats.TotalCustomers)
}
