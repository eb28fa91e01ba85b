package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
	cryptoService "github.com/privacyhub/privacy-gateway/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for encrypting token values at rest. Key material is zeroed from memory
// after encoding. If keyID is empty, generates a default ID in format
// "master-key-YYYY-MM-DD".
//
// When kmsKeyURI is provided the key is wrapped through the KMS keeper before
// output, so raw key material never appears in the environment. Without a
// KMS URI the raw base64 key is printed; that mode is intended for local
// development only.
//
// Output format:
//   - MASTER_KEYS="<keyID>:<base64-encoded-key-or-ciphertext>"
//   - ACTIVE_MASTER_KEY_ID="<keyID>"
func RunCreateMasterKey(ctx context.Context, out io.Writer, keyID, kmsKeyURI string) error {
	// Generate default key ID if not provided
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	payload := masterKey

	if kmsKeyURI != "" {
		kmsService := cryptoService.NewKMSService()
		keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}

		// The keeper interface only covers Decrypt; wrapping needs the
		// underlying keeper's Encrypt.
		keeper, ok := keeperInterface.(interface {
			Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
			Close() error
		})
		if !ok {
			return fmt.Errorf("KMS keeper does not support encryption")
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				fmt.Fprintf(out, "Warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		ciphertext, err := keeper.Encrypt(ctx, masterKey)
		if err != nil {
			return fmt.Errorf("failed to wrap master key with KMS: %w", err)
		}

		fmt.Fprintln(out, "# KMS Mode: master key wrapped with KMS")
		fmt.Fprintf(out, "# KMS Key URI: %s\n", kmsKeyURI)
		payload = ciphertext
	} else {
		fmt.Fprintln(out, "# Plain Mode: raw key material, local development only")
	}

	encodedKey := base64.StdEncoding.EncodeToString(payload)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# Master Key Configuration")
	fmt.Fprintln(out, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(out)
	if kmsKeyURI != "" {
		fmt.Fprintf(out, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	fmt.Fprintf(out, "MASTER_KEYS=\"%s:%s\"\n", keyID, encodedKey)
	fmt.Fprintf(out, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "# For key rotation, append new entries to MASTER_KEYS and move")
	fmt.Fprintln(out, "# ACTIVE_MASTER_KEY_ID to the new key; old records stay decryptable.")

	return nil
}
