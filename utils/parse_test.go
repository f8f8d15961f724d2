package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	value, err := ParseFloat("12.50")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, value)

	value, err = ParseFloat("")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, value)

	value, err = ParseFloat("abc")
	assert.Error(t, err)
	assert.Equal(t, 0.0, value)
}

func TestParseInt(t *testing.T) {
	value, err := ParseInt("3")
	assert.NoError(t, err)
	assert.Equal(t, 3, value)

	value, err = ParseInt("")
	assert.NoError(t, err)
	assert.Equal(t, 0, value)

	value, err = ParseInt("2.5")
	assert.Error(t, err)
	assert.Equal(t, 0, value)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "my-coffee-shop", Slugify("My Coffee Shop"))
	assert.Equal(t, "caf-bar", Slugify("  Café & Bar!  "))
	assert.Equal(t, "shop-24-7", Slugify("Shop 24/7"))
	assert.Equal(t, "", Slugify("***"))
}
