package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewNonZeroError("fizz", "divisor")
	assert.Equal(t, "NON_ZERO_VALUE: divisor is zero; fizzbuzz only operates on natural numbers (integers greater than zero) (rule=fizz)", err.Error())

	err = NewRuleConfigError("", "rule set is empty")
	assert.Equal(t, "INVALID_RULE_CONFIGURATION: rule set is empty", err.Error())
}

func TestErrorPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("loading rules: %w", NewTokenConfigError("x", "bad token"))

	assert.True(t, IsTokenConfigError(wrapped))
	assert.False(t, IsRuleConfigError(wrapped))
	assert.False(t, IsNonZeroValueError(wrapped))
	assert.False(t, IsNonZeroValueError(errors.New("plain")))
	assert.False(t, IsNonZeroValueError(nil))
}
