package engine

import (
	"errors"
	"fmt"
)

// Error represents a rule or run configuration that the engine refuses.
//
// All errors are reported before evaluation starts; a run never returns
// partial output together with an error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Rule names the offending rule, if any.
	Rule string
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeNonZeroValue indicates a divisor, rival or iteration count of zero.
	ErrCodeNonZeroValue ErrorCode = "NON_ZERO_VALUE"

	// ErrCodeInvalidRuleConfiguration indicates a structurally unusable rule
	// or rule set, such as a streak rule that is its own rival.
	ErrCodeInvalidRuleConfiguration ErrorCode = "INVALID_RULE_CONFIGURATION"

	// ErrCodeInvalidTokenConfiguration indicates tokenization parameters that
	// contradict the rule's constraints, such as an empty token.
	ErrCodeInvalidTokenConfiguration ErrorCode = "INVALID_TOKEN_CONFIGURATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s: %s (rule=%s)", e.Code, e.Message, e.Rule)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNonZeroValueError returns true if err is, or wraps, a non-zero-value error.
func IsNonZeroValueError(err error) bool {
	return hasCode(err, ErrCodeNonZeroValue)
}

// IsRuleConfigError returns true if err is, or wraps, an invalid rule configuration error.
func IsRuleConfigError(err error) bool {
	return hasCode(err, ErrCodeInvalidRuleConfiguration)
}

// IsTokenConfigError returns true if err is, or wraps, an invalid token configuration error.
func IsTokenConfigError(err error) bool {
	return hasCode(err, ErrCodeInvalidTokenConfiguration)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// NewNonZeroError creates an Error for a zero value in the named field.
func NewNonZeroError(rule, field string) *Error {
	return &Error{
		Code:    ErrCodeNonZeroValue,
		Message: fmt.Sprintf("%s is zero; fizzbuzz only operates on natural numbers (integers greater than zero)", field),
		Rule:    rule,
	}
}

// NewRuleConfigError creates an Error for an invalid rule configuration.
func NewRuleConfigError(rule, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidRuleConfiguration,
		Message: fmt.Sprintf(format, args...),
		Rule:    rule,
	}
}

// NewTokenConfigError creates an Error for an invalid token configuration.
func NewTokenConfigError(rule, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidTokenConfiguration,
		Message: fmt.Sprintf(format, args...),
		Rule:    rule,
	}
}
