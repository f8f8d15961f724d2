package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Thumbnail bounding box
	thumbnailSize = 320
)

// Allowed image extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	// Remove any path components
	filename = filepath.Base(filename)
	// Remove any non-alphanumeric characters except for dots and hyphens
	reg := regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	return reg.ReplaceAllString(filename, "")
}

// ValidateImageType checks if the file extension is an allowed image format
func ValidateImageType(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	if err := os.MkdirAll(uploadBaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %v", err)
	}

	dirs := []string{
		filepath.Join(uploadBaseDir, "products"),
		filepath.Join(uploadBaseDir, "logos"),
		filepath.Join(uploadBaseDir, "thumbnails"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// UniqueImageName produces a collision-free filename for an upload, keeping
// only the original extension.
func UniqueImageName(prefix, originalName string) string {
	ext := strings.ToLower(filepath.Ext(cleanFilename(originalName)))
	return fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
}

// UploadImage saves image data under uploads/<subdir>/ and returns the URL.
// The stored name is uuid-generated so uploads sharing an original filename
// never overwrite each other.
func UploadImage(fileData []byte, filename, subdir string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	if err := ValidateImageType(cleanFilename(filename)); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	storedName := UniqueImageName(strings.TrimSuffix(subdir, "s"), filename)
	fullPath := filepath.Join(uploadBaseDir, subdir, storedName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return baseURL + "/" + subdir + "/" + storedName, nil
}

// CreateThumbnail decodes the image, fits it into the thumbnail bounding box
// and stores the result as JPEG under uploads/thumbnails/. Returns the
// thumbnail URL.
func CreateThumbnail(fileData []byte, filename string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	// Thumbnails are always re-encoded to JPEG, so force the extension
	generated := UniqueImageName("thumb", filename)
	thumbName := strings.TrimSuffix(generated, filepath.Ext(generated)) + ".jpg"

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, "thumbnails", thumbName)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return baseURL + "/thumbnails/" + thumbName, nil
}

// DeleteFile removes an uploaded file given its public URL. Paths outside the
// uploads directory are refused.
func DeleteFile(fileURL string) error {
	if !strings.HasPrefix(fileURL, baseURL+"/") {
		return fmt.Errorf("not an uploaded file: %s", fileURL)
	}

	rel := strings.TrimPrefix(fileURL, baseURL+"/")
	fullPath := filepath.Join(uploadBaseDir, filepath.Clean(rel))
	if !strings.HasPrefix(fullPath, uploadBaseDir+string(os.PathSeparator)) {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	return os.Remove(fullPath)
}
