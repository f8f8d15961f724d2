package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from a scratch directory so uploads land there
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

// storedPath maps a public upload URL back to the file on disk
func storedPath(url string) string {
	return filepath.Join(uploadBaseDir, strings.TrimPrefix(url, baseURL+"/"))
}

func TestUniqueImageName(t *testing.T) {
	first := UniqueImageName("logo", "photo.PNG")
	second := UniqueImageName("logo", "photo.PNG")

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "logo_"))
	assert.True(t, strings.HasSuffix(first, ".png"))

	// Path components in the original name never reach the stored name
	escaped := UniqueImageName("logo", "../../etc/passwd.png")
	assert.NotContains(t, escaped, "/")
	assert.NotContains(t, escaped, "..")
}

func TestUploadImageSameFilenameDoesNotCollide(t *testing.T) {
	chdirTemp(t)

	firstURL, err := UploadImage([]byte("first-shop-logo"), "logo.png", "logos")
	require.NoError(t, err)
	secondURL, err := UploadImage([]byte("second-shop-logo"), "logo.png", "logos")
	require.NoError(t, err)

	assert.NotEqual(t, firstURL, secondURL)

	first, err := os.ReadFile(storedPath(firstURL))
	require.NoError(t, err)
	second, err := os.ReadFile(storedPath(secondURL))
	require.NoError(t, err)
	assert.Equal(t, "first-shop-logo", string(first))
	assert.Equal(t, "second-shop-logo", string(second))
}

func TestUploadImageRejectsUnknownExtension(t *testing.T) {
	chdirTemp(t)

	_, err := UploadImage([]byte("payload"), "script.sh", "logos")
	assert.Error(t, err)
}

func TestCreateThumbnailSameFilenameDoesNotCollide(t *testing.T) {
	chdirTemp(t)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	firstURL, err := CreateThumbnail(buf.Bytes(), "product.png")
	require.NoError(t, err)
	secondURL, err := CreateThumbnail(buf.Bytes(), "product.png")
	require.NoError(t, err)

	assert.NotEqual(t, firstURL, secondURL)
	assert.True(t, strings.HasSuffix(firstURL, ".jpg"))

	_, err = os.Stat(storedPath(firstURL))
	assert.NoError(t, err)
	_, err = os.Stat(storedPath(secondURL))
	assert.NoError(t, err)
}
