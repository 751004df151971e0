package utils

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// AcceptedDocumentPattern mirrors the file picker's accept list. It is a
// hint only; the document service decides what it can process.
const AcceptedDocumentPattern = "*.{jpg,jpeg,png,pdf,docx}"

// AcceptedImagePattern is the hint for employee photos.
const AcceptedImagePattern = "*.{jpg,jpeg,png,gif,webp,bmp}"

// HasAcceptedExtension reports whether filename matches pattern,
// case-insensitively.
func HasAcceptedExtension(pattern, filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	ok, err := doublestar.Match(pattern, base)
	return err == nil && ok
}

// InferMimeType infers MIME type from file extension
func InferMimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// MimeTypeOrInfer prefers the browser-supplied type and falls back to the
// extension when the browser sent nothing useful.
func MimeTypeOrInfer(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" || declared == "application/octet-stream" {
		return InferMimeType(filename)
	}
	return declared
}
