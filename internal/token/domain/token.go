// Package domain defines the persisted token mapping model.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// TokenRecord is one side of the bijective mapping between an original PII
// value and its placeholder token. The original value is stored only as
// AEAD ciphertext; ValueHash exists so repeated values resolve to the same
// token without decrypting the table.
//
// MasterKeyID and Algorithm identify the key and cipher that produced the
// ciphertext, so records created before a key rotation stay decryptable.
type TokenRecord struct {
	ID          uuid.UUID
	TokenID     string
	EntityType  piiDomain.EntityType
	ValueHash   string
	Ciphertext  []byte
	Nonce       []byte
	MasterKeyID string
	Algorithm   cryptoDomain.Algorithm
	CreatedAt   time.Time
	ExpiresAt   *time.Time
}

// IsExpired checks if the record's TTL has elapsed. All time comparisons use UTC.
func (t *TokenRecord) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().UTC().After(t.ExpiresAt.UTC())
}
