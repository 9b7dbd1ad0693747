// Package validation provides input validation helpers for form submissions.
package validation

import (
	"fmt"
	"strings"
)

// FieldErrors maps form field names to validation messages. A nil or empty
// map means the input passed.
type FieldErrors map[string]string

// Ok reports whether no field failed validation.
func (e FieldErrors) Ok() bool {
	return len(e) == 0
}

// Require records an error for field when value is blank.
func (e FieldErrors) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		e[field] = "This field is required."
	}
}

// MaxLen records an error for field when value exceeds max characters.
func (e FieldErrors) MaxLen(field, value string, max int) {
	if _, taken := e[field]; taken {
		return
	}
	if len(value) > max {
		e[field] = fmt.Sprintf("Must be at most %d characters.", max)
	}
}
