package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// MasterKey represents a cryptographic key used to encrypt token record
// values at rest.
//
// Master keys are supplied at process start and held for the lifetime of the
// process. They are never derived from or stored alongside the values they
// protect.
//
// Fields:
//   - ID: Unique identifier for the master key (e.g., "prod-2026-08")
//   - Key: The raw 32-byte key material
type MasterKey struct {
	ID  string
	Key []byte
}

// KMSKeeper decrypts wrapped key material. *gocloud.dev/secrets.Keeper
// implements this interface.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// MasterKeyChain manages a collection of master keys with one designated as
// active.
//
// The keychain allows for key rotation: new records are encrypted with the
// active key while records written under older keys remain decryptable by
// their key ID. Thread safety: the keychain uses sync.Map internally for
// concurrent access.
type MasterKeyChain struct {
	activeID string
	keys     sync.Map
}

// ActiveMasterKeyID returns the ID of the currently active master key.
func (m *MasterKeyChain) ActiveMasterKeyID() string {
	return m.activeID
}

// Active returns the master key used to encrypt new records.
func (m *MasterKeyChain) Active() (*MasterKey, bool) {
	return m.Get(m.activeID)
}

// Get retrieves a master key from the keychain by its ID. Used to decrypt
// records written under keys that are no longer active.
func (m *MasterKeyChain) Get(id string) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(id); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Close securely clears all master keys from memory and resets the keychain.
// Call during shutdown so key material does not outlive the process's need
// for it.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(_, value any) bool {
		Zero(value.(*MasterKey).Key)
		return true
	})
	m.activeID = ""
	m.keys.Clear()
}

// LoadMasterKeyChainFromEnv loads master keys from environment variables.
//
// Reads two environment variables:
//   - MASTER_KEYS: comma-separated list of entries in "id:base64key" format
//   - ACTIVE_MASTER_KEY_ID: ID of the key used to encrypt new records
//
// Each key must decode to exactly 32 bytes. When a KMS keeper is provided,
// each base64 payload is treated as a wrapped key and unwrapped through the
// keeper before use, so raw key material never appears in the environment.
func LoadMasterKeyChainFromEnv(ctx context.Context, keeper KMSKeeper) (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	active := os.Getenv("ACTIVE_MASTER_KEY_ID")
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: active}

	parts := strings.SplitSeq(raw, ",")
	for part := range parts {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		key, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}
		if keeper != nil {
			unwrapped, err := keeper.Decrypt(ctx, key)
			Zero(key)
			if err != nil {
				mkc.Close()
				return nil, fmt.Errorf("failed to unwrap master key %s: %w", id, err)
			}
			key = unwrapped
		}
		if len(key) != 32 {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be 32 bytes, got %d",
				ErrInvalidKeySize,
				id,
				len(key),
			)
		}
		mkc.keys.Store(id, &MasterKey{ID: id, Key: key})
	}

	if _, ok := mkc.Get(active); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active)
	}

	return mkc, nil
}

// NewMasterKeyChain builds a keychain from in-memory keys. Intended for tests
// and embedding callers that manage key material themselves.
func NewMasterKeyChain(activeID string, keys ...*MasterKey) (*MasterKeyChain, error) {
	mkc := &MasterKeyChain{activeID: activeID}
	for _, key := range keys {
		if len(key.Key) != 32 {
			return nil, fmt.Errorf("%w: master key %s must be 32 bytes", ErrInvalidKeySize, key.ID)
		}
		mkc.keys.Store(key.ID, key)
	}
	if _, ok := mkc.Get(activeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrActiveMasterKeyNotFound, activeID)
	}
	return mkc, nil
}
