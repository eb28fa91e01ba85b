// Package usecase implements the token store business logic.
//
// The store keeps a bijective mapping between PII values and opaque token
// IDs. Values are encrypted with the active master key before persistence;
// the plaintext never reaches the repository layer.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
	cryptoService "github.com/privacyhub/privacy-gateway/internal/crypto/service"
	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenDomain "github.com/privacyhub/privacy-gateway/internal/token/domain"
	tokenService "github.com/privacyhub/privacy-gateway/internal/token/service"
)

// maxValueBytes caps the size of a single PII value. Anything larger is not
// an identifier and indicates a misbehaving detector.
const maxValueBytes = 1 << 20

// createAttempts bounds retries when a generated token ID collides.
const createAttempts = 3

// tokenStore implements TokenStore backed by a TokenRepository and AEAD
// encryption.
//
// Per-value serialization has two layers: a singleflight group collapses
// concurrent GetOrCreate calls for the same value hash inside the process,
// and the repository's unique constraint on value_hash settles races between
// processes. Distinct values never block each other.
type tokenStore struct {
	repo        TokenRepository
	aeadManager cryptoService.AEADManager
	keyChain    *cryptoDomain.MasterKeyChain
	hashService HashService
	idGenerator tokenService.TokenIDGenerator
	algorithm   cryptoDomain.Algorithm
	idLength    int
	ttl         time.Duration

	group singleflight.Group
}

// NewTokenStore creates a TokenStore. A ttl of zero disables expiration.
func NewTokenStore(
	repo TokenRepository,
	aeadManager cryptoService.AEADManager,
	keyChain *cryptoDomain.MasterKeyChain,
	hashService HashService,
	idGenerator tokenService.TokenIDGenerator,
	algorithm cryptoDomain.Algorithm,
	idLength int,
	ttl time.Duration,
) TokenStore {
	return &tokenStore{
		repo:        repo,
		aeadManager: aeadManager,
		keyChain:    keyChain,
		hashService: hashService,
		idGenerator: idGenerator,
		algorithm:   algorithm,
		idLength:    idLength,
		ttl:         ttl,
	}
}

// GetOrCreate returns the token ID for (entityType, value), creating the
// mapping on first sight. The singleflight key is the value hash, so fifty
// concurrent callers with the same value produce one record and fifty
// identical token IDs.
func (t *tokenStore) GetOrCreate(
	ctx context.Context,
	entityType piiDomain.EntityType,
	value string,
) (string, error) {
	if value == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "value cannot be empty")
	}
	if len(value) > maxValueBytes {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "value exceeds maximum size")
	}
	if !entityType.Valid() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "unknown entity type")
	}

	valueHash := t.hashService.Hash(entityType, value)

	tokenID, err, _ := t.group.Do(valueHash, func() (any, error) {
		return t.getOrCreateLocked(ctx, entityType, value, valueHash)
	})
	if err != nil {
		return "", err
	}
	return tokenID.(string), nil
}

// getOrCreateLocked runs with the singleflight slot for valueHash held.
func (t *tokenStore) getOrCreateLocked(
	ctx context.Context,
	entityType piiDomain.EntityType,
	value string,
	valueHash string,
) (string, error) {
	existing, err := t.repo.GetByValueHash(ctx, valueHash)
	switch {
	case err == nil:
		if !existing.IsExpired() {
			return existing.TokenID, nil
		}
		// The expired row still occupies the unique value_hash slot.
		// Remove it so a fresh mapping can take its place.
		if err := t.repo.Delete(ctx, existing.TokenID); err != nil &&
			!apperrors.Is(err, piiDomain.ErrTokenNotFound) {
			return "", apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to evict expired token: %v", err)
		}
	case apperrors.Is(err, piiDomain.ErrTokenNotFound):
		// No mapping yet, fall through to create one.
	default:
		return "", apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to look up value hash: %v", err)
	}

	record, err := t.buildRecord(entityType, value, valueHash)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		err = t.repo.Create(ctx, record)
		switch {
		case err == nil:
			return record.TokenID, nil
		case apperrors.Is(err, tokenDomain.ErrDuplicateValue):
			// Another process created the mapping between our lookup and
			// insert. Its record wins; read it back.
			winner, readErr := t.repo.GetByValueHash(ctx, valueHash)
			if readErr != nil {
				return "", apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to re-read after conflict: %v", readErr)
			}
			return winner.TokenID, nil
		case apperrors.Is(err, tokenDomain.ErrDuplicateTokenID):
			newID, genErr := t.idGenerator.Generate(t.idLength)
			if genErr != nil {
				return "", apperrors.Wrap(genErr, "failed to regenerate token id")
			}
			record.TokenID = newID
		default:
			return "", apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to create token: %v", err)
		}
	}
	return "", apperrors.Wrap(piiDomain.ErrStoreUnavailable, "token id collisions exhausted retries")
}

// buildRecord encrypts the value under the active master key and assembles a
// new record with a fresh token ID and nonce.
func (t *tokenStore) buildRecord(
	entityType piiDomain.EntityType,
	value string,
	valueHash string,
) (*tokenDomain.TokenRecord, error) {
	masterKey, ok := t.keyChain.Active()
	if !ok {
		return nil, cryptoDomain.ErrActiveMasterKeyNotFound
	}

	cipher, err := t.aeadManager.CreateCipher(masterKey.Key, t.algorithm)
	if err != nil {
		return nil, err
	}

	// The entity type rides along as AAD so a record cannot be replayed
	// under a different type.
	ciphertext, nonce, err := cipher.Encrypt([]byte(value), []byte(entityType))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt value")
	}

	tokenID, err := t.idGenerator.Generate(t.idLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token id")
	}

	now := time.Now().UTC()
	record := &tokenDomain.TokenRecord{
		ID:          uuid.Must(uuid.NewV7()),
		TokenID:     tokenID,
		EntityType:  entityType,
		ValueHash:   valueHash,
		Ciphertext:  ciphertext,
		Nonce:       nonce,
		MasterKeyID: masterKey.ID,
		Algorithm:   t.algorithm,
		CreatedAt:   now,
	}
	if t.ttl > 0 {
		expiresAt := now.Add(t.ttl)
		record.ExpiresAt = &expiresAt
	}
	return record, nil
}

// Resolve decrypts the mapping behind a token ID.
func (t *tokenStore) Resolve(ctx context.Context, tokenID string) (*ResolvedToken, error) {
	if err := t.idGenerator.Validate(tokenID); err != nil {
		return nil, apperrors.Wrapf(piiDomain.ErrInvalidPlaceholder, "%v", err)
	}

	record, err := t.repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		if apperrors.Is(err, piiDomain.ErrTokenNotFound) {
			return nil, err
		}
		return nil, apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to get token: %v", err)
	}

	if record.IsExpired() {
		return nil, piiDomain.ErrTokenExpired
	}

	masterKey, ok := t.keyChain.Get(record.MasterKeyID)
	if !ok {
		return nil, apperrors.Wrapf(cryptoDomain.ErrMasterKeyNotFound, "key id %s", record.MasterKeyID)
	}

	cipher, err := t.aeadManager.CreateCipher(masterKey.Key, record.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(record.Ciphertext, record.Nonce, []byte(record.EntityType))
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return &ResolvedToken{
		TokenID:    record.TokenID,
		EntityType: record.EntityType,
		Value:      string(plaintext),
	}, nil
}

// PurgeExpired deletes records that expired before cutoff. With dryRun the
// matching count is returned without deletion.
func (t *tokenStore) PurgeExpired(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	if cutoff.IsZero() {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "cutoff timestamp cannot be zero")
	}

	if dryRun {
		count, err := t.repo.CountExpired(ctx, cutoff)
		if err != nil {
			return 0, apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to count expired tokens: %v", err)
		}
		return count, nil
	}

	deleted, err := t.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to delete expired tokens: %v", err)
	}
	return deleted, nil
}

// Stats reports store size and the current expired backlog.
func (t *tokenStore) Stats(ctx context.Context) (*StoreStats, error) {
	total, err := t.repo.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to count tokens: %v", err)
	}

	expired, err := t.repo.CountExpired(ctx, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Wrapf(piiDomain.ErrStoreUnavailable, "failed to count expired tokens: %v", err)
	}

	return &StoreStats{TotalTokens: total, ExpiredTokens: expired}, nil
}
