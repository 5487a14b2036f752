package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

const MaxImageSize = 10 << 20 // 10 MB

var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ValidateImage checks an uploaded image's extension and size.
func ValidateImage(filename string, size int64) error {
	if size > MaxImageSize {
		return fmt.Errorf("file size exceeds maximum limit of %d MB", MaxImageSize/(1<<20))
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExts[ext]; !ok {
		return fmt.Errorf("invalid file type: %q", ext)
	}
	return nil
}

// ImageContentType guesses the MIME type from the file extension.
func ImageContentType(filename string) string {
	if ct, ok := imageExts[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtForContentType is the inverse of ImageContentType, defaulting to .png.
func ExtForContentType(ct string) string {
	switch ct {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// RandomToken returns n random bytes encoded as URL-safe base64.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
