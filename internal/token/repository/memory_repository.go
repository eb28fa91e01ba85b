package repository

import (
	"context"
	"sync"
	"time"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenDomain "github.com/privacyhub/privacy-gateway/internal/token/domain"
)

// MemoryTokenRepository implements token record persistence in process
// memory. Mappings do not survive restarts; intended for tests and
// single-node deployments where durability is not required.
type MemoryTokenRepository struct {
	mu          sync.RWMutex
	byTokenID   map[string]*tokenDomain.TokenRecord
	byValueHash map[string]*tokenDomain.TokenRecord
}

// NewMemoryTokenRepository creates a new in-memory token repository instance.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{
		byTokenID:   make(map[string]*tokenDomain.TokenRecord),
		byValueHash: make(map[string]*tokenDomain.TokenRecord),
	}
}

// Create inserts a new token record, enforcing the same uniqueness rules as
// the database backends.
func (m *MemoryTokenRepository) Create(_ context.Context, record *tokenDomain.TokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byValueHash[record.ValueHash]; ok {
		return tokenDomain.ErrDuplicateValue
	}
	if _, ok := m.byTokenID[record.TokenID]; ok {
		return tokenDomain.ErrDuplicateTokenID
	}

	stored := *record
	m.byTokenID[stored.TokenID] = &stored
	m.byValueHash[stored.ValueHash] = &stored
	return nil
}

// GetByTokenID retrieves a token record by its token ID.
func (m *MemoryTokenRepository) GetByTokenID(
	_ context.Context,
	tokenID string,
) (*tokenDomain.TokenRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byTokenID[tokenID]
	if !ok {
		return nil, piiDomain.ErrTokenNotFound
	}
	copied := *record
	return &copied, nil
}

// GetByValueHash retrieves the token record mapped to a value hash.
func (m *MemoryTokenRepository) GetByValueHash(
	_ context.Context,
	valueHash string,
) (*tokenDomain.TokenRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byValueHash[valueHash]
	if !ok {
		return nil, piiDomain.ErrTokenNotFound
	}
	copied := *record
	return &copied, nil
}

// Delete removes a token record by its token ID.
func (m *MemoryTokenRepository) Delete(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byTokenID[tokenID]
	if !ok {
		return piiDomain.ErrTokenNotFound
	}
	delete(m.byTokenID, tokenID)
	delete(m.byValueHash, record.ValueHash)
	return nil
}

// DeleteExpired deletes token records that expired before the specified
// timestamp. Returns the number of deleted records.
func (m *MemoryTokenRepository) DeleteExpired(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for tokenID, record := range m.byTokenID {
		if record.ExpiresAt != nil && record.ExpiresAt.Before(olderThan) {
			delete(m.byTokenID, tokenID)
			delete(m.byValueHash, record.ValueHash)
			deleted++
		}
	}
	return deleted, nil
}

// CountExpired counts token records that expired before the specified
// timestamp without deleting them.
func (m *MemoryTokenRepository) CountExpired(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, record := range m.byTokenID {
		if record.ExpiresAt != nil && record.ExpiresAt.Before(olderThan) {
			count++
		}
	}
	return count, nil
}

// Count returns the total number of token records.
func (m *MemoryTokenRepository) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.byTokenID)), nil
}
