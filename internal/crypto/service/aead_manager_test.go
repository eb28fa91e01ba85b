package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
)

func TestAEADManager_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := make([]byte, 32)

	t.Run("aes-gcm", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, cipher)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, cipher)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, cryptoDomain.Algorithm("des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestCipherRoundTrip(t *testing.T) {
	manager := NewAEADManager()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(alg.String(), func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte("张三的手机号是13812345678")
			aad := []byte("PHONE")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, 12)
			assert.NotContains(t, string(ciphertext), "13812345678")

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)

			// Wrong AAD must fail authentication
			_, err = cipher.Decrypt(ciphertext, nonce, []byte("EMAIL"))
			assert.Error(t, err)
		})
	}
}

func TestCipherFreshNoncePerEncryption(t *testing.T) {
	manager := NewAEADManager()
	cipher, err := manager.CreateCipher(make([]byte, 32), cryptoDomain.AESGCM)
	require.NoError(t, err)

	plaintext := []byte("same plaintext")

	ct1, nonce1, err := cipher.Encrypt(plaintext, nil)
	require.NoError(t, err)
	ct2, nonce2, err := cipher.Encrypt(plaintext, nil)
	require.NoError(t, err)

	// Identical plaintexts must not share a nonce or produce identical ciphertexts
	assert.NotEqual(t, nonce1, nonce2)
	assert.NotEqual(t, ct1, ct2)
}
