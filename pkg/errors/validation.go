package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateContent checks playbook source text before conversion.
// Content that is empty after trimming whitespace is rejected with
// ErrCodeEmptyContent. A non-positive maxBytes disables the size check.
func ValidateContent(content string, maxBytes int) error {
	if strings.TrimSpace(content) == "" {
		return New(ErrCodeEmptyContent, "content cannot be empty")
	}
	if maxBytes > 0 && len(content) > maxBytes {
		return New(ErrCodeInputTooLarge, "content too large (%d bytes, max %d)", len(content), maxBytes)
	}
	return nil
}

// ValidateTitle validates a playbook title.
//
// Validation rules:
//   - Title cannot be empty or whitespace only
//   - Maximum length of 200 characters
//   - No control characters
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return New(ErrCodeInvalidInput, "title cannot be empty")
	}

	const maxTitleLength = 200
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}
	return nil
}

// idRegex matches playbook identifiers: lowercase hex UUIDs or short slugs.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// ValidateID validates a playbook identifier taken from a URL or flag.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid id: %q", id)
	}
	return nil
}
