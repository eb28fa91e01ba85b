// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/privacyhub/privacy-gateway/internal/gateway"
)

// MockGateway is a mock implementation of Gateway for testing.
type MockGateway struct {
	mock.Mock
}

// Protect mocks the Protect method of Gateway.
func (m *MockGateway) Protect(ctx context.Context, text string) (*gateway.ProtectResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ProtectResult), args.Error(1)
}

// Restore mocks the Restore method of Gateway.
func (m *MockGateway) Restore(
	ctx context.Context,
	text string,
	tokenIDs []string,
) (*gateway.RestoreResult, error) {
	args := m.Called(ctx, text, tokenIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RestoreResult), args.Error(1)
}

// Status mocks the Status method of Gateway.
func (m *MockGateway) Status(ctx context.Context) (*gateway.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Status), args.Error(1)
}
