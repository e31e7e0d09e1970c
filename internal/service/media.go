package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder for imaging.Decode

	"fixmycity/internal/model"
)

// ImageEncoder turns a picked image into the data URI sent with a report.
// With compression on, the image is fitted into maxWidth x maxHeight and
// re-encoded as JPEG; otherwise the bytes are sent as they are.
type ImageEncoder struct {
	maxWidth  int
	maxHeight int
	compress  bool
}

func NewImageEncoder(maxWidth, maxHeight int, compress bool) *ImageEncoder {
	return &ImageEncoder{maxWidth: maxWidth, maxHeight: maxHeight, compress: compress}
}

// DataURI builds "data:image/<type>;base64,..." for the report's image.
// ImageBase64 wins over ImagePath; the path still drives the MIME type.
func (e *ImageEncoder) DataURI(in model.NewReport) (string, error) {
	mimeType := model.ImageTypeFromPath(in.ImagePath)

	if !e.compress {
		if in.ImageBase64 != "" {
			return model.DataURI(mimeType, in.ImageBase64), nil
		}
		data, err := readImageFile(in.ImagePath, model.MaxImageSizeBytes)
		if err != nil {
			return "", err
		}
		return model.DataURI(mimeType, base64.StdEncoding.EncodeToString(data)), nil
	}

	var data []byte
	if in.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(in.ImageBase64)
		if err != nil {
			return "", fmt.Errorf("decode image base64: %w", err)
		}
		if len(decoded) > model.MaxImageSizeBytes {
			return "", model.ErrFileTooLarge
		}
		data = decoded
	} else {
		read, err := readImageFile(in.ImagePath, model.MaxImageSizeBytes)
		if err != nil {
			return "", err
		}
		data = read
	}

	if err := validateImageType(data); err != nil {
		return "", err
	}

	jpegBytes, err := fitToJPEG(data, e.maxWidth, e.maxHeight, model.ImageJPEGQuality)
	if err != nil {
		return "", err
	}
	return model.DataURI(model.ContentTypeJPEG, base64.StdEncoding.EncodeToString(jpegBytes)), nil
}

// readImageFile loads the file into memory with a size cap.
func readImageFile(path string, maxSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxSize {
		return nil, model.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, model.ErrMissingImage
	}
	return data, nil
}

func validateImageType(data []byte) error {
	contentType := http.DetectContentType(data[:min(len(data), 512)])
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return fmt.Errorf("%w: %s", model.ErrInvalidImageType, contentType)
	}
	return nil
}

// fitToJPEG scales the image down to fit width x height, keeping its aspect
// ratio, and encodes it as JPEG. Smaller images are not upscaled.
func fitToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if width > 0 && height > 0 {
		img = imaging.Fit(img, width, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
