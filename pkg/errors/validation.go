package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxSaveNameLength bounds the display name of a saved game.
const MaxSaveNameLength = 128

// MaxLevelNumber bounds starting level numbers accepted from users. Level n
// has about 2n vertices and building it tests every pair of segments, so the
// cost grows with the square of the level.
const MaxLevelNumber = 200

// ValidateSaveName validates the display name of a saved game.
//
// Names are shown in listings and used to derive file names, so the rules
// are conservative:
//   - No empty or all-blank names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of MaxSaveNameLength bytes
func ValidateSaveName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidSaveName, "save name cannot be empty")
	}

	if len(name) > MaxSaveNameLength {
		return New(ErrCodeInvalidSaveName, "save name too long (max %d characters)", MaxSaveNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSaveName, "save name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidSaveName, "save name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateLevelNumber validates a starting level number.
func ValidateLevelNumber(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidLevel, "level number cannot be negative: %d", n)
	}
	if n > MaxLevelNumber {
		return New(ErrCodeInvalidLevel, "level number too large (max %d)", MaxLevelNumber)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-sensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
