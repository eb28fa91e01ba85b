package usecase

import (
	"context"
	"time"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenDomain "github.com/privacyhub/privacy-gateway/internal/token/domain"
)

// TokenRepository defines token record persistence operations.
//
// Create must enforce value hash uniqueness and return ErrDuplicateValue
// when a concurrent writer got there first; the store layer relies on this
// to keep the value-to-token mapping bijective across processes.
type TokenRepository interface {
	Create(ctx context.Context, record *tokenDomain.TokenRecord) error
	GetByTokenID(ctx context.Context, tokenID string) (*tokenDomain.TokenRecord, error)
	GetByValueHash(ctx context.Context, valueHash string) (*tokenDomain.TokenRecord, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ResolvedToken is a decrypted token mapping returned by Resolve.
type ResolvedToken struct {
	TokenID    string
	EntityType piiDomain.EntityType
	Value      string
}

// StoreStats summarizes the live state of the token store.
type StoreStats struct {
	TotalTokens   int64
	ExpiredTokens int64
}

// TokenStore maintains the bijective mapping between PII values and tokens.
type TokenStore interface {
	// GetOrCreate returns the token ID mapped to (entityType, value),
	// creating the mapping if absent. Concurrent calls with the same value
	// observe exactly one mapping.
	GetOrCreate(ctx context.Context, entityType piiDomain.EntityType, value string) (string, error)

	// Resolve returns the decrypted mapping for a token ID. Returns
	// ErrTokenNotFound for unknown IDs and ErrTokenExpired for mappings
	// whose TTL has elapsed.
	Resolve(ctx context.Context, tokenID string) (*ResolvedToken, error)

	// PurgeExpired deletes mappings that expired before the cutoff. With
	// dryRun the count is returned without deletion.
	PurgeExpired(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)

	// Stats reports the current store size and expired backlog.
	Stats(ctx context.Context) (*StoreStats, error)
}
