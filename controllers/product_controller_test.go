package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgram/shopgram_backend/models"
)

func TestProductFromRequestCoercion(t *testing.T) {
	product, err := productFromRequest(models.SaveProductRequest{
		Name:  "Mug",
		Price: "12.50",
		Stock: "3",
	})
	require.NoError(t, err)

	assert.Equal(t, 12.5, product.Price)
	assert.Equal(t, 3, product.Stock)
	assert.True(t, product.IsActive)
	assert.Equal(t, models.DefaultLowStockThreshold, product.LowStockThreshold)
	assert.NotNil(t, product.Images)
}

func TestProductFromRequestUnparseableNumbersBecomeZero(t *testing.T) {
	product, err := productFromRequest(models.SaveProductRequest{
		Name:  "Mug",
		Price: "abc",
		Stock: "lots",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, product.Price)
	assert.Equal(t, 0, product.Stock)
}

func TestProductFromRequestRejectsNegatives(t *testing.T) {
	_, err := productFromRequest(models.SaveProductRequest{Name: "Mug", Price: "-1"})
	assert.Error(t, err)

	_, err = productFromRequest(models.SaveProductRequest{Name: "Mug", Stock: "-3"})
	assert.Error(t, err)
}

func TestProductFromRequestInvalidID(t *testing.T) {
	_, err := productFromRequest(models.SaveProductRequest{ID: "not-an-oid", Name: "Mug"})
	assert.Error(t, err)
}

func TestProductFromRequestExplicitInactive(t *testing.T) {
	inactive := false
	product, err := productFromRequest(models.SaveProductRequest{
		Name:     "Mug",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, product.IsActive)
}

func TestLooksLikeBotToken(t *testing.T) {
	assert.True(t, looksLikeBotToken("123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1"))
	assert.False(t, looksLikeBotToken("no-colon-here"))
	assert.False(t, looksLikeBotToken("abc:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw1"))
	assert.False(t, looksLikeBotToken("123456789:short"))
	assert.False(t, looksLikeBotToken(""))
}
