package errors

import (
	"strings"
	"unicode"
)

// maxIdentifierLength bounds node identifiers and kind names.
const maxIdentifierLength = 128

// ValidateNodeID validates a node identifier used in scenario files and CLI
// arguments.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	return validateIdentifier("node id", id)
}

// ValidateKind validates a compatibility kind name. The same rules as
// [ValidateNodeID] apply.
func ValidateKind(kind string) error {
	return validateIdentifier("kind", kind)
}

func validateIdentifier(what, s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	}

	if len(s) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", what, maxIdentifierLength)
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", what)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s %q contains whitespace", what, s)
		}
	}

	if strings.ContainsAny(s, `"\`) {
		return New(ErrCodeInvalidInput, "%s %q contains quote or backslash", what, s)
	}

	return nil
}
