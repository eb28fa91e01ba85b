package domain

import (
	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
)

var (
	// ErrDetectionFailed indicates the detector could not analyze the input.
	// Protect calls fail fast on this rather than returning partially
	// anonymized text.
	ErrDetectionFailed = apperrors.Wrap(apperrors.ErrUnavailable, "pii detection failed")

	// ErrStoreUnavailable indicates the token store backend could not be
	// reached or rejected the operation.
	ErrStoreUnavailable = apperrors.Wrap(apperrors.ErrUnavailable, "token store unavailable")

	// ErrTokenNotFound indicates a placeholder references a token that does
	// not exist in the store.
	ErrTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "token not found")

	// ErrTokenExpired indicates a token record exists but its TTL has
	// elapsed. Expired tokens are treated as absent for restoration.
	ErrTokenExpired = apperrors.Wrap(apperrors.ErrNotFound, "token expired")

	// ErrInvalidPlaceholder indicates text that resembles a placeholder but
	// does not parse as one.
	ErrInvalidPlaceholder = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid placeholder syntax")

	// ErrScopeMismatch indicates a supplied token ID is not in the caller's
	// allow-list. Treated like an unknown token so callers cannot probe for
	// tokens minted outside their scope.
	ErrScopeMismatch = apperrors.Wrap(apperrors.ErrNotFound, "token not in allowed scope")
)
