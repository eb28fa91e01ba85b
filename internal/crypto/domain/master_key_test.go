package domain

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validKeyB64() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestLoadMasterKeyChainFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Run("loads keys and active id", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "key1:"+validKeyB64()+",key2:"+validKeyB64())
		t.Setenv("ACTIVE_MASTER_KEY_ID", "key2")

		mkc, err := LoadMasterKeyChainFromEnv(ctx, nil)
		require.NoError(t, err)
		defer mkc.Close()

		assert.Equal(t, "key2", mkc.ActiveMasterKeyID())

		active, ok := mkc.Active()
		require.True(t, ok)
		assert.Equal(t, "key2", active.ID)
		assert.Len(t, active.Key, 32)

		_, ok = mkc.Get("key1")
		assert.True(t, ok)
		_, ok = mkc.Get("missing")
		assert.False(t, ok)
	})

	t.Run("missing MASTER_KEYS", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "")
		t.Setenv("ACTIVE_MASTER_KEY_ID", "key1")

		_, err := LoadMasterKeyChainFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrMasterKeysNotSet)
	})

	t.Run("missing ACTIVE_MASTER_KEY_ID", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "key1:"+validKeyB64())
		t.Setenv("ACTIVE_MASTER_KEY_ID", "")

		_, err := LoadMasterKeyChainFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrActiveMasterKeyIDNotSet)
	})

	t.Run("malformed entry", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "no-colon-here")
		t.Setenv("ACTIVE_MASTER_KEY_ID", "key1")

		_, err := LoadMasterKeyChainFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidMasterKeysFormat)
	})

	t.Run("invalid base64", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "key1:!!!not-base64!!!")
		t.Setenv("ACTIVE_MASTER_KEY_ID", "key1")

		_, err := LoadMasterKeyChainFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidMasterKeyBase64)
	})

	t.Run("wrong key size", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("too-short"))
		t.Setenv("MASTER_KEYS", "key1:"+short)
		t.Setenv("ACTIVE_MASTER_KEY_ID", "key1")

		_, err := LoadMasterKeyChainFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("active id not in chain", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "key1:"+validKeyB64())
		t.Setenv("ACTIVE_MASTER_KEY_ID", "key9")

		_, err := LoadMasterKeyChainFromEnv(ctx, nil)
		assert.ErrorIs(t, err, ErrActiveMasterKeyNotFound)
	})
}

func TestNewMasterKeyChain(t *testing.T) {
	key := &MasterKey{ID: "k1", Key: make([]byte, 32)}

	t.Run("valid", func(t *testing.T) {
		mkc, err := NewMasterKeyChain("k1", key)
		require.NoError(t, err)
		active, ok := mkc.Active()
		assert.True(t, ok)
		assert.Equal(t, "k1", active.ID)
	})

	t.Run("wrong size", func(t *testing.T) {
		_, err := NewMasterKeyChain("k1", &MasterKey{ID: "k1", Key: []byte("short")})
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("active missing", func(t *testing.T) {
		_, err := NewMasterKeyChain("other", key)
		assert.ErrorIs(t, err, ErrActiveMasterKeyNotFound)
	})
}

func TestMasterKeyChainClose(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = 0xAB
	}
	mkc, err := NewMasterKeyChain("k1", &MasterKey{ID: "k1", Key: raw})
	require.NoError(t, err)

	mkc.Close()

	assert.Empty(t, mkc.ActiveMasterKeyID())
	_, ok := mkc.Get("k1")
	assert.False(t, ok)
	for _, b := range raw {
		assert.Zero(t, b)
	}
}
