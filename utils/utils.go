package utils

import (
	"net/http"
	"path/filepath"
	"regexp"
)

// --- Image Validation ---

var SupportedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

// ImageExtension returns the file extension for a supported image MIME type.
func ImageExtension(mimeType string) (string, bool) {
	ext, ok := SupportedImageTypes[mimeType]
	return ext, ok
}

var unsafeName = regexp.MustCompile(`[^\w.\-]`)

// SanitizeFilename keeps only word characters, dots and dashes.
func SanitizeFilename(name string) string {
	clean := unsafeName.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" || clean == "." {
		return "file"
	}
	return clean
}

// ClientIP returns the remote address used for rate limiting.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
