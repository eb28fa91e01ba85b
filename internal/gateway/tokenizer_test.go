package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
	cryptoService "github.com/privacyhub/privacy-gateway/internal/crypto/service"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenRepository "github.com/privacyhub/privacy-gateway/internal/token/repository"
	tokenService "github.com/privacyhub/privacy-gateway/internal/token/service"
	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

func newTestTokenStore(t *testing.T) tokenUsecase.TokenStore {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	chain, err := cryptoDomain.NewMasterKeyChain("test-key", &cryptoDomain.MasterKey{ID: "test-key", Key: key})
	require.NoError(t, err)

	return tokenUsecase.NewTokenStore(
		tokenRepository.NewMemoryTokenRepository(),
		cryptoService.NewAEADManager(),
		chain,
		tokenUsecase.NewSHA256HashService(),
		tokenService.NewTokenIDGenerator(),
		cryptoDomain.AESGCM,
		12,
		time.Hour,
	)
}

func mustCodec(t *testing.T) *PlaceholderCodec {
	t.Helper()
	codec, err := NewPlaceholderCodec("[", "]")
	require.NoError(t, err)
	return codec
}

func TestTokenizer_Tokenize(t *testing.T) {
	ctx := context.Background()

	t.Run("single entity", func(t *testing.T) {
		tokenizer := NewTokenizer(newTestTokenStore(t), mustCodec(t))

		text := "请联系13812345678谢谢"
		entities := []piiDomain.Entity{
			{Value: "13812345678", Type: piiDomain.EntityTypePhone, Start: 3, End: 14, Confidence: 0.9},
		}

		protected, tokens, err := tokenizer.Tokenize(ctx, text, entities)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		assert.NotContains(t, protected, "13812345678")
		assert.True(t, strings.HasPrefix(protected, "请联系[PHONE_"))
		assert.True(t, strings.HasSuffix(protected, "]谢谢"))
	})

	t.Run("multiple entities replaced high to low", func(t *testing.T) {
		tokenizer := NewTokenizer(newTestTokenStore(t), mustCodec(t))

		text := "13812345678和zhang@example.com"
		entities := []piiDomain.Entity{
			{Value: "13812345678", Type: piiDomain.EntityTypePhone, Start: 0, End: 11, Confidence: 0.9},
			{Value: "zhang@example.com", Type: piiDomain.EntityTypeEmail, Start: 12, End: 29, Confidence: 0.9},
		}

		protected, tokens, err := tokenizer.Tokenize(ctx, text, entities)
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.NotContains(t, protected, "13812345678")
		assert.NotContains(t, protected, "zhang@example.com")
		assert.Contains(t, protected, "和")
	})

	t.Run("repeated value yields one placeholder string", func(t *testing.T) {
		tokenizer := NewTokenizer(newTestTokenStore(t), mustCodec(t))

		text := "13812345678 13812345678"
		entities := []piiDomain.Entity{
			{Value: "13812345678", Type: piiDomain.EntityTypePhone, Start: 0, End: 11, Confidence: 0.9},
			{Value: "13812345678", Type: piiDomain.EntityTypePhone, Start: 12, End: 23, Confidence: 0.9},
		}

		protected, tokens, err := tokenizer.Tokenize(ctx, text, entities)
		require.NoError(t, err)
		// Same value, same token, so the map has a single entry
		require.Len(t, tokens, 1)

		parts := strings.Split(protected, " ")
		require.Len(t, parts, 2)
		assert.Equal(t, parts[0], parts[1])
	})

	t.Run("no entities", func(t *testing.T) {
		tokenizer := NewTokenizer(newTestTokenStore(t), mustCodec(t))

		protected, tokens, err := tokenizer.Tokenize(ctx, "plain text", nil)
		require.NoError(t, err)
		assert.Equal(t, "plain text", protected)
		assert.Empty(t, tokens)
	})

	t.Run("out of bounds span", func(t *testing.T) {
		tokenizer := NewTokenizer(newTestTokenStore(t), mustCodec(t))

		_, _, err := tokenizer.Tokenize(ctx, "short", []piiDomain.Entity{
			{Value: "x", Type: piiDomain.EntityTypeOther, Start: 3, End: 99, Confidence: 1},
		})
		assert.Error(t, err)
	})
}

func TestResolveOverlaps(t *testing.T) {
	t.Run("higher confidence wins", func(t *testing.T) {
		selected := resolveOverlaps([]piiDomain.Entity{
			{Type: piiDomain.EntityTypePhone, Start: 0, End: 11, Confidence: 0.9},
			{Type: piiDomain.EntityTypeBankCard, Start: 5, End: 20, Confidence: 0.7},
		})
		require.Len(t, selected, 1)
		assert.Equal(t, piiDomain.EntityTypePhone, selected[0].Type)
	})

	t.Run("equal confidence longer span wins", func(t *testing.T) {
		selected := resolveOverlaps([]piiDomain.Entity{
			{Type: piiDomain.EntityTypePhone, Start: 5, End: 16, Confidence: 0.9},
			{Type: piiDomain.EntityTypeIDNumber, Start: 0, End: 18, Confidence: 0.9},
		})
		require.Len(t, selected, 1)
		assert.Equal(t, piiDomain.EntityTypeIDNumber, selected[0].Type)
	})

	t.Run("equal confidence and length earlier start wins", func(t *testing.T) {
		selected := resolveOverlaps([]piiDomain.Entity{
			{Type: piiDomain.EntityTypeEmail, Start: 2, End: 7, Confidence: 0.9},
			{Type: piiDomain.EntityTypePhone, Start: 0, End: 5, Confidence: 0.9},
		})
		require.Len(t, selected, 1)
		assert.Equal(t, piiDomain.EntityTypePhone, selected[0].Type)
	})

	t.Run("disjoint spans all kept in start order", func(t *testing.T) {
		selected := resolveOverlaps([]piiDomain.Entity{
			{Type: piiDomain.EntityTypeEmail, Start: 20, End: 30, Confidence: 0.5},
			{Type: piiDomain.EntityTypePhone, Start: 0, End: 11, Confidence: 0.9},
		})
		require.Len(t, selected, 2)
		assert.Equal(t, piiDomain.EntityTypePhone, selected[0].Type)
		assert.Equal(t, piiDomain.EntityTypeEmail, selected[1].Type)
	})

	t.Run("chained overlaps", func(t *testing.T) {
		// B overlaps both A and C; A and C are disjoint. B has the highest
		// confidence so it alone survives.
		selected := resolveOverlaps([]piiDomain.Entity{
			{Type: piiDomain.EntityTypePhone, Start: 0, End: 10, Confidence: 0.8},
			{Type: piiDomain.EntityTypeIDNumber, Start: 5, End: 25, Confidence: 0.95},
			{Type: piiDomain.EntityTypeEmail, Start: 20, End: 30, Confidence: 0.8},
		})
		require.Len(t, selected, 1)
		assert.Equal(t, piiDomain.EntityTypeIDNumber, selected[0].Type)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, resolveOverlaps(nil))
	})
}
