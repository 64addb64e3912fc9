// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierRe matches backend model and method names such as
// "project.project" or "search_read".
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z0-9_]+)*$`)

// Identifier validates a model or method name. kind is used in the error
// message ("model", "method").
func Identifier(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s is required", kind)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("%s %q is not a valid identifier", kind, name)
	}
	return nil
}

// SearchText validates that text is non-blank after trimming whitespace.
func SearchText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("search text is required")
	}
	return nil
}
