package engine

import (
	"errors"
	"fmt"
)

// PassError represents a fatal error detected during a naming pass.
//
// Fatal kinds abort the whole pass immediately:
//   - Missing type tag: a declaration has no type at all
//   - Invalid type tag: the tag does not match root::provider::name
//   - Invalid configuration: a config field fails validation
//   - Invalid rule options: a rule was built with unrecognized options
//
// Unmatched types are deliberately NOT errors; they produce a gated
// diagnostic and the declaration is left untouched.
type PassError struct {
	// Code identifies the error category.
	Code PassErrorCode

	// Message is a human-readable description.
	Message string

	// LogicalID identifies the offending declaration, when applicable.
	LogicalID string

	// Field identifies the violated configuration field or rule option.
	Field string
}

// PassErrorCode categorizes fatal pass errors.
type PassErrorCode string

const (
	// ErrCodeMissingTypeTag indicates a declaration without a type tag.
	ErrCodeMissingTypeTag PassErrorCode = "MISSING_TYPE_TAG"

	// ErrCodeInvalidTypeTag indicates a type tag that does not match the
	// three-segment root::provider::name pattern.
	ErrCodeInvalidTypeTag PassErrorCode = "INVALID_TYPE_TAG"

	// ErrCodeInvalidConfig indicates a configuration field that failed
	// validation. Raised before any declaration is processed.
	ErrCodeInvalidConfig PassErrorCode = "INVALID_CONFIG"

	// ErrCodeInvalidRuleOptions indicates a rule constructed with
	// unrecognized options. Raised at table-build time.
	ErrCodeInvalidRuleOptions PassErrorCode = "INVALID_RULE_OPTIONS"
)

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.LogicalID != "" {
		return fmt.Sprintf("%s: %s (resource=%s)", e.Code, e.Message, e.LogicalID)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTypeTagError returns true for missing or malformed type tags.
// Uses errors.As to handle wrapped errors.
func IsTypeTagError(err error) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeMissingTypeTag || pe.Code == ErrCodeInvalidTypeTag
	}
	return false
}

// IsConfigError returns true for configuration validation failures.
func IsConfigError(err error) bool {
	var pe *PassError
	return errors.As(err, &pe) && pe.Code == ErrCodeInvalidConfig
}

// NewMissingTypeTagError creates a PassError for a declaration without a
// type tag.
func NewMissingTypeTagError(logicalID string) *PassError {
	return &PassError{
		Code:      ErrCodeMissingTypeTag,
		Message:   "declaration has no type tag",
		LogicalID: logicalID,
	}
}

// NewInvalidTypeTagError creates a PassError for a malformed type tag.
func NewInvalidTypeTagError(logicalID, tag string) *PassError {
	return &PassError{
		Code:      ErrCodeInvalidTypeTag,
		Message:   fmt.Sprintf("type tag %q does not match root::provider::name", tag),
		LogicalID: logicalID,
	}
}
