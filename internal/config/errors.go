package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/larek/internal/config/loader"
)

// Sentinel errors for configuration operations.
var (
	// ErrFileNotFound indicates an explicitly requested config file is missing.
	ErrFileNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates the merged configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError represents an error while parsing a configuration source.
type ParseError = loader.ParseError

// FieldError describes one invalid setting.
type FieldError struct {
	// Path is the dot-separated setting path (e.g., "api.baseUrl").
	Path string
	// Rule is the failed validation rule (e.g., "required", "url").
	Rule string
	// Value is the offending value.
	Value any
}

// ValidationError collects every invalid setting of a configuration.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: failed %q (value %v)", f.Path, f.Rule, f.Value))
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Has reports whether path failed validation.
func (e *ValidationError) Has(path string) bool {
	for _, f := range e.Fields {
		if f.Path == path {
			return true
		}
	}
	return false
}
