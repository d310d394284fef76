package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePositive checks that v is a finite number strictly greater than zero.
// The returned error carries code and names the offending field.
func ValidatePositive(code Code, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(code, "%s must be a finite number, got %v", field, v)
	}
	if v <= 0 {
		return New(code, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative checks that v is a finite number greater than or equal to zero.
func ValidateNonNegative(code Code, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(code, "%s must be a finite number, got %v", field, v)
	}
	if v < 0 {
		return New(code, "%s must not be negative, got %v", field, v)
	}
	return nil
}

// ValidateItemID validates an item identifier.
// Empty IDs are allowed (items are identified by position); non-empty IDs
// end up in SVG attributes and cache keys, so control characters and
// quotes are rejected.
//
//   - Maximum length of 512 characters
//   - No control characters or null bytes
//   - No double quotes or angle brackets
func ValidateItemID(id string) error {
	if len(id) > 512 {
		return New(ErrCodeInvalidItem, "item id too long (max 512 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, `"<>`) {
		return New(ErrCodeInvalidItem, "item id contains invalid characters: %q", id)
	}
	return nil
}

// ValidatePath validates a manifest or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
