// Package mocks provides mock implementations for testing token store consumers.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

// MockTokenStore is a mock implementation of TokenStore for testing.
type MockTokenStore struct {
	mock.Mock
}

// GetOrCreate mocks the GetOrCreate method of TokenStore.
func (m *MockTokenStore) GetOrCreate(
	ctx context.Context,
	entityType piiDomain.EntityType,
	value string,
) (string, error) {
	args := m.Called(ctx, entityType, value)
	return args.String(0), args.Error(1)
}

// Resolve mocks the Resolve method of TokenStore.
func (m *MockTokenStore) Resolve(ctx context.Context, tokenID string) (*tokenUsecase.ResolvedToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenUsecase.ResolvedToken), args.Error(1)
}

// PurgeExpired mocks the PurgeExpired method of TokenStore.
func (m *MockTokenStore) PurgeExpired(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, cutoff, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// Stats mocks the Stats method of TokenStore.
func (m *MockTokenStore) Stats(ctx context.Context) (*tokenUsecase.StoreStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenUsecase.StoreStats), args.Error(1)
}
