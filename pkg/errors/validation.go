package errors

import (
	"strings"
	"unicode"
)

// ValidateColumnName validates a column name used in a role schema.
// Names are matched against input headers, so they must be non-empty
// and free of control characters.
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates an input or output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}

// validOutputFormats lists the artifact formats the renderer can produce.
var validOutputFormats = map[string]bool{
	"svg":  true,
	"png":  true,
	"pdf":  true,
	"json": true,
}

// ValidateOutputFormat checks that format names a supported artifact format.
func ValidateOutputFormat(format string) error {
	if !validOutputFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateOutputFormats checks every format in formats.
func ValidateOutputFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateOutputFormat(f); err != nil {
			return err
		}
	}
	return nil
}
