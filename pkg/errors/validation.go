package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier used in annotation requests
// and tree documents. IDs travel through JSON documents, cache keys, and
// SVG element ids, so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No whitespace
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLabel, "node id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidLabel, "node id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "node id contains control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidLabel, "node id contains whitespace")
		}
	}

	return nil
}

// ValidateLabel validates a node label. Labels may contain newlines (they
// render as stacked lines) but no other control characters, and are capped
// at a length that keeps width estimation meaningful.
func ValidateLabel(label string) error {
	if len(label) > 1024 {
		return New(ErrCodeInvalidLabel, "label too long (max 1024 characters)")
	}

	for _, r := range label {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a file path used for rendered output.
// It prevents path traversal out of the working tree and rejects
// obviously broken paths.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidDocument, "output path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidDocument, "output path too long (max 500 characters)")
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidDocument, "output path contains null byte")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "output path contains control characters")
		}
	}

	return nil
}
