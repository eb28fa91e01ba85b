// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// EntityType validates that a string names a known PII entity type
var EntityType = validation.NewStringRuleWithError(
	func(s string) bool {
		return piiDomain.EntityType(s).Valid()
	},
	validation.NewError("validation_entity_type", "must be a known entity type"),
)

// tokenIDPattern matches the opaque token IDs minted by the token store.
var tokenIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// TokenID validates that a string is a well-formed token ID
var TokenID = validation.NewStringRuleWithError(
	func(s string) bool {
		return tokenIDPattern.MatchString(s)
	},
	validation.NewError("validation_token_id", "must be a lowercase alphanumeric token id"),
)
