package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateNodeName validates a display name coming from a snapshot.
//
// The validation rules are intentionally conservative:
//   - No control characters
//   - Maximum length of 256 characters
//
// Empty names are accepted; a node is identified by its numeric id.
func ValidateNodeName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "node name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}
	return nil
}

// ValidateRect validates box geometry. Coordinates and sizes must be finite
// and sizes must not be negative. A zero-sized rectangle is valid: hosts use
// it for a box being removed.
func ValidateRect(x, y, width, height float64) error {
	for _, v := range []float64{x, y, width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "box geometry must be finite")
		}
	}
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "box size must not be negative (%gx%g)", width, height)
	}
	return nil
}

// ValidatePath validates an input or output file path given on the command
// line or in a configuration file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsFunc(path, unicode.IsControl) {
		return New(ErrCodeInvalidInput, "path contains invalid characters")
	}
	return nil
}
