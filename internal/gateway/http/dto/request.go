// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/privacyhub/privacy-gateway/internal/validation"
)

// maxTextBytes caps request payload text. Large documents should be chunked
// by the caller.
const maxTextBytes = 1 << 20

// ProtectRequest contains the text to anonymize.
type ProtectRequest struct {
	Text string `json:"text"`
}

// Validate checks if the protect request is valid.
func (r *ProtectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text,
			validation.Required,
			validation.Length(1, maxTextBytes),
		),
	)
}

// RestoreRequest contains protected text and an optional token ID allow-list.
// Callers pass the token IDs their own protect call returned, so tokens
// minted for other sessions are never resolved on their behalf.
type RestoreRequest struct {
	Text     string   `json:"text"`
	TokenIDs []string `json:"token_ids"`
}

// Validate checks if the restore request is valid.
func (r *RestoreRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text,
			validation.Required,
			validation.Length(1, maxTextBytes),
		),
		validation.Field(&r.TokenIDs,
			validation.Each(customValidation.TokenID),
		),
	)
}
