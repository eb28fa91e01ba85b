// Package service provides cryptographic services for encrypting token
// record values at rest. Implements AEAD ciphers (AES-256-GCM,
// ChaCha20-Poly1305) with a fresh random nonce generated per encryption.
package service

import (
	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	// The nonce is generated fresh for every call and must be stored with the
	// ciphertext; it is never reused across records.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
