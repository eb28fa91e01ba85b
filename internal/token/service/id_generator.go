// Package service provides token ID generation.
package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// tokenIDChars is lowercase alphanumeric so token IDs survive case-folding
// transport (email subjects, some log pipelines) and stay visually distinct
// from the uppercase entity tag inside a placeholder.
const tokenIDChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// TokenIDGenerator generates and validates the opaque IDs embedded in
// placeholders.
type TokenIDGenerator interface {
	Generate(length int) (string, error)
	Validate(tokenID string) error
}

type tokenIDGenerator struct{}

// NewTokenIDGenerator creates a generator producing cryptographically secure
// random lowercase alphanumeric token IDs.
func NewTokenIDGenerator() TokenIDGenerator {
	return &tokenIDGenerator{}
}

// Generate creates a random token ID of the specified length using [a-z0-9].
// Returns an error if length is less than 8 or greater than 64; shorter IDs
// make collisions plausible, longer ones bloat protected text.
func (g *tokenIDGenerator) Generate(length int) (string, error) {
	if length < 8 {
		return "", errors.New("length must be at least 8")
	}
	if length > 64 {
		return "", errors.New("length must not exceed 64")
	}

	id := make([]byte, length)
	charsLen := big.NewInt(int64(len(tokenIDChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		id[i] = tokenIDChars[n.Int64()]
	}

	return string(id), nil
}

// Validate checks if the token ID is non-empty and contains only [a-z0-9].
func (g *tokenIDGenerator) Validate(tokenID string) error {
	if len(tokenID) == 0 {
		return errors.New("token id cannot be empty")
	}

	for _, c := range tokenID {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return errors.New("token id must contain only lowercase alphanumeric characters [a-z0-9]")
		}
	}

	return nil
}
