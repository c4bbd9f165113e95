package services

import (
	"mime"
	"strings"
)

// Format is a supported document format
type Format string

const (
	FormatDOCX        Format = "docx"
	FormatPDF         Format = "pdf"
	FormatUnsupported Format = "unsupported"
)

const (
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypePDF  = "application/pdf"
)

// DetectFormat classifies a document by its declared MIME type, falling
// back to the filename suffix when the type is generic or missing.
func DetectFormat(declaredMIMEType, filename string) Format {
	switch mediaType(declaredMIMEType) {
	case MIMETypeDOCX:
		return FormatDOCX
	case MIMETypePDF:
		return FormatPDF
	}

	name := strings.ToLower(strings.TrimSpace(filename))
	switch {
	case strings.HasSuffix(name, ".docx"):
		return FormatDOCX
	case strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	}

	return FormatUnsupported
}

// mediaType strips parameters such as "; charset=binary" and lowercases.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
