package errors

import (
	"regexp"
	"unicode"
)

// ValidateColumnName validates a column role name supplied from outside the
// process (CLI flags, configuration files).
//
// Names must be non-empty, at most 256 characters and free of control
// characters. Whether the column exists is checked later by the accessor.
func ValidateColumnName(name string) error {
	if name == "" {
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

// algorithmNameRegex matches registry identifiers such as "shortest_path".
var algorithmNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateAlgorithmName validates an algorithm identifier.
func ValidateAlgorithmName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "algorithm name cannot be empty")
	}
	if !algorithmNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid algorithm name: %q", name)
	}
	return nil
}

// backendNameRegex matches engine identifiers such as "table_graph".
var backendNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

// ValidateBackendName validates an engine identifier in a priority list.
func ValidateBackendName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "backend name cannot be empty")
	}
	if !backendNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid backend name: %q", name)
	}
	return nil
}
