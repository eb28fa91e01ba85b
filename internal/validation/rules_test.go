package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	wrapped := WrapValidationError(errors.New("text: cannot be blank"))
	assert.ErrorIs(t, wrapped, apperrors.ErrInvalidInput)
	assert.Contains(t, wrapped.Error(), "cannot be blank")
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("hello", NotBlank))
	// Empty strings are skipped by string rules; Required covers them
	assert.NoError(t, validation.Validate("", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
	assert.Error(t, validation.Validate("\t\n", NotBlank))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("hello", NoWhitespace))
	assert.NoError(t, validation.Validate("hello world", NoWhitespace))
	assert.Error(t, validation.Validate(" hello", NoWhitespace))
	assert.Error(t, validation.Validate("hello ", NoWhitespace))
}

func TestEntityType(t *testing.T) {
	assert.NoError(t, validation.Validate("PHONE", EntityType))
	assert.NoError(t, validation.Validate("ID_NUMBER", EntityType))
	assert.Error(t, validation.Validate("phone", EntityType))
	assert.Error(t, validation.Validate("MYSTERY", EntityType))
}

func TestTokenID(t *testing.T) {
	assert.NoError(t, validation.Validate("a1b2c3d4e5f6", TokenID))
	assert.Error(t, validation.Validate("A1B2C3", TokenID))
	assert.Error(t, validation.Validate("has space", TokenID))
	assert.Error(t, validation.Validate("semi;colon", TokenID))
}
