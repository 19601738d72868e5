package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxKeyLength bounds object and layout keys, which end up in artifact names.
const maxKeyLength = 128

// ValidateKey validates an object or layout key.
// Keys are used to build artifact file names, so they are kept conservative:
//   - No empty keys
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}

	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key %q contains invalid control characters", key)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "key %q contains invalid characters: %q", key, pattern)
		}
	}

	return nil
}

// ValidatePath validates an artifact path relative to an output directory.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// colorHexRegex matches #rgb, #rrggbb and #rrggbbaa color literals.
var colorHexRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a hex color literal used in effect arguments.
func ValidateHexColor(s string) error {
	if !colorHexRegex.MatchString(s) {
		return New(ErrCodeInvalidInput, "invalid hex color %q", s)
	}
	return nil
}
