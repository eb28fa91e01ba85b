package usecase

import (
	"crypto/sha256"
	"encoding/hex"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// HashService computes the deduplication hash for a PII value.
type HashService interface {
	Hash(entityType piiDomain.EntityType, value string) string
}

type sha256HashService struct{}

// NewSHA256HashService creates a SHA-256 hash service.
func NewSHA256HashService() HashService {
	return &sha256HashService{}
}

// Hash computes SHA-256 over the entity type and value, separated by a NUL
// byte so ("AB", "C") and ("A", "BC") cannot collide, and returns it as a
// hex string. The same literal value under two entity types hashes
// differently and therefore maps to two distinct tokens.
func (s *sha256HashService) Hash(entityType piiDomain.EntityType, value string) string {
	h := sha256.New()
	h.Write([]byte(entityType))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
