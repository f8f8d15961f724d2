package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shopgram/shopgram_backend/models"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestNormalizeProductDefaults(t *testing.T) {
	// A bare legacy document: no stock, no isActive, no threshold, no images
	product := normalizeProduct(productDoc{Name: "Mug", Price: 9.99})

	assert.Equal(t, 0, product.Stock)
	assert.True(t, product.IsActive)
	assert.Equal(t, models.DefaultLowStockThreshold, product.LowStockThreshold)
	assert.NotNil(t, product.Images)
	assert.Empty(t, product.Images)
}

func TestNormalizeProductExplicitValues(t *testing.T) {
	product := normalizeProduct(productDoc{
		Name:              "Mug",
		Stock:             intPtr(12),
		IsActive:          boolPtr(false),
		LowStockThreshold: intPtr(2),
		Images:            []string{"/uploads/products/a.jpg"},
	})

	assert.Equal(t, 12, product.Stock)
	assert.False(t, product.IsActive)
	assert.Equal(t, 2, product.LowStockThreshold)
	assert.Len(t, product.Images, 1)
}

func TestNormalizeProductLowOnStock(t *testing.T) {
	product := normalizeProduct(productDoc{Name: "Mug", Stock: intPtr(5)})
	assert.True(t, product.LowOnStock())

	product = normalizeProduct(productDoc{Name: "Mug", Stock: intPtr(6)})
	assert.False(t, product.LowOnStock())
}

func TestNormalizeShopDefaults(t *testing.T) {
	shop := normalizeShop(shopDoc{Name: "Corner Store", Slug: "corner-store"})

	assert.True(t, shop.IsActive)
	assert.Equal(t, DefaultCurrency, shop.Settings.Currency)
	assert.Zero(t, shop.Stats)
}

func TestNormalizeShopExplicitValues(t *testing.T) {
	shop := normalizeShop(shopDoc{
		Name:     "Corner Store",
		IsActive: boolPtr(false),
		Settings: &shopSettingsDoc{Currency: "EUR", TaxRate: 0.2},
		Stats:    &models.ShopStats{TotalOrders: 3},
	})

	assert.False(t, shop.IsActive)
	assert.Equal(t, "EUR", shop.Settings.Currency)
	assert.Equal(t, 0.2, shop.Settings.TaxRate)
	assert.Equal(t, 3, shop.Stats.TotalOrders)
}

// A product-count refresh writes the dotted "stats.totalProducts" path, so
// the counter must survive a read-back even when no other stat was ever set.
func TestNormalizeShopPartialStats(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"name":  "Corner Store",
		"stats": bson.M{"totalProducts": 4},
	})
	assert.NoError(t, err)

	var doc shopDoc
	assert.NoError(t, bson.Unmarshal(raw, &doc))

	shop := normalizeShop(doc)
	assert.Equal(t, 4, shop.Stats.TotalProducts)
	assert.Zero(t, shop.Stats.TotalOrders)
}

func TestNormalizeShopEmptyCurrencyFallsBack(t *testing.T) {
	shop := normalizeShop(shopDoc{
		Name:     "Corner Store",
		Settings: &shopSettingsDoc{TaxRate: 0.1},
	})
	assert.Equal(t, DefaultCurrency, shop.Settings.Currency)
}

func TestNormalizeCategoryDefaults(t *testing.T) {
	category := normalizeCategory(categoryDoc{Name: "Drinks"})

	assert.Equal(t, 0, category.Order)
	assert.True(t, category.IsActive)
	assert.Equal(t, 0, category.ProductCount)

	category = normalizeCategory(categoryDoc{
		Name:         "Drinks",
		Order:        intPtr(4),
		IsActive:     boolPtr(false),
		ProductCount: intPtr(9),
	})
	assert.Equal(t, 4, category.Order)
	assert.False(t, category.IsActive)
	assert.Equal(t, 9, category.ProductCount)
}

func TestNormalizeDepartmentDefaults(t *testing.T) {
	department := normalizeDepartment(departmentDoc{
		Name:           "Cashier",
		TelegramChatID: "-100555",
		Role:           models.DepartmentRoleCashier,
	})

	assert.Equal(t, 0, department.Order)
	assert.True(t, department.IsActive)
	assert.NotNil(t, department.NotificationTypes)
	assert.Empty(t, department.NotificationTypes)
}
