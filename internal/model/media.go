package model

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	MaxImageSizeBytes = 10 * 1024 * 1024 // 10MB source image
	ImageJPEGQuality  = 80
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// ImageTypeFromPath infers "image/<ext>" from the last dot-separated part of
// a file name or URI, falling back to image/jpeg when there is no extension.
func ImageTypeFromPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" || strings.ContainsAny(ext, `/\`) {
		return ContentTypeJPEG
	}
	return "image/" + strings.ToLower(ext)
}

// DataURI builds "data:<mime>;base64,<payload>".
func DataURI(mimeType, base64Payload string) string {
	return "data:" + mimeType + ";base64," + base64Payload
}
