package utils

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

const MaxImageSize = 2 << 20

var (
	ErrUnsupportedImage = errors.New("only jpeg, jpg, png and webp images are allowed")
	ErrImageTooLarge    = errors.New("image must be 2MB or smaller")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// ValidateImage checks an uploaded image's declared type, extension and size.
func ValidateImage(file *multipart.FileHeader) error {
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		return ErrUnsupportedImage
	}
	if !allowedImageExts[strings.ToLower(filepath.Ext(file.Filename))] {
		return ErrUnsupportedImage
	}
	if file.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}
