package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateID validates an axis or series identifier.
// It rejects names that could break cache keys, file exports, or URL routes.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// chartIDRegex matches chart instance identifiers issued by the server
// (UUIDs) or supplied by callers (simple slugs).
var chartIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateChartID validates a chart instance identifier used in URL routes
// and cache keys.
func ValidateChartID(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	if !chartIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid chart id: %q", id)
	}

	return nil
}

// ValidateDataKey validates a series data-key accessor. Data keys address
// fields in caller-supplied records, so only structural characters are
// rejected; dots are allowed for nested access.
func ValidateDataKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidSeries, "data key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidSeries, "data key too long (max 256 characters)")
	}

	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSeries, "data key contains invalid characters")
		}
	}

	return nil
}

// ValidatePath validates an output file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
