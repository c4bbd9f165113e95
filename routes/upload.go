package routes

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 255

var dangerousFilenameParts = []string{"../", "..\\", "<", ">", "\"", "|", "\x00"}

// validateFilename ensures the uploaded filename is safe to echo back and log
func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	if utf8.RuneCountInString(filename) > maxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", maxFilenameLength)
	}

	for _, part := range dangerousFilenameParts {
		if strings.Contains(filename, part) {
			return fmt.Errorf("filename contains invalid or dangerous characters")
		}
	}

	return nil
}
