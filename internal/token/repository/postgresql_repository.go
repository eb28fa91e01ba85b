// Package repository implements token record persistence with PostgreSQL,
// MySQL, and in-memory backends.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
	"github.com/privacyhub/privacy-gateway/internal/database"
	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenDomain "github.com/privacyhub/privacy-gateway/internal/token/domain"
)

// PostgreSQLTokenRepository implements token record persistence for
// PostgreSQL databases.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository instance.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new token record. Returns ErrDuplicateValue when the value
// hash is already mapped and ErrDuplicateTokenID when the generated token ID
// collides.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, record *tokenDomain.TokenRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO pii_tokens
			  (id, token_id, entity_type, value_hash, ciphertext, nonce, master_key_id, algorithm, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.TokenID,
		record.EntityType,
		record.ValueHash,
		record.Ciphertext,
		record.Nonce,
		record.MasterKeyID,
		record.Algorithm,
		record.CreatedAt,
		record.ExpiresAt,
	)
	if err != nil {
		if dup, ok := postgresDuplicateError(err); ok {
			return dup
		}
		return apperrors.Wrap(err, "failed to create token record")
	}
	return nil
}

// GetByTokenID retrieves a token record by its token ID.
func (p *PostgreSQLTokenRepository) GetByTokenID(
	ctx context.Context,
	tokenID string,
) (*tokenDomain.TokenRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_id, entity_type, value_hash, ciphertext, nonce, master_key_id, algorithm, created_at, expires_at
			  FROM pii_tokens
			  WHERE token_id = $1`

	return scanTokenRecord(querier.QueryRowContext(ctx, query, tokenID))
}

// GetByValueHash retrieves the token record mapped to a value hash.
func (p *PostgreSQLTokenRepository) GetByValueHash(
	ctx context.Context,
	valueHash string,
) (*tokenDomain.TokenRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_id, entity_type, value_hash, ciphertext, nonce, master_key_id, algorithm, created_at, expires_at
			  FROM pii_tokens
			  WHERE value_hash = $1`

	return scanTokenRecord(querier.QueryRowContext(ctx, query, valueHash))
}

// Delete removes a token record by its token ID.
func (p *PostgreSQLTokenRepository) Delete(ctx context.Context, tokenID string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM pii_tokens WHERE token_id = $1`

	result, err := querier.ExecContext(ctx, query, tokenID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete token record")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return piiDomain.ErrTokenNotFound
	}

	return nil
}

// DeleteExpired deletes token records that expired before the specified
// timestamp. Returns the number of deleted records. All timestamps are
// expected in UTC.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM pii_tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired token records")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// CountExpired counts token records that expired before the specified
// timestamp without deleting them.
func (p *PostgreSQLTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM pii_tokens WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired token records")
	}

	return count, nil
}

// Count returns the total number of token records.
func (p *PostgreSQLTokenRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM pii_tokens`

	var count int64
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count token records")
	}

	return count, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTokenRecord scans a token record row, mapping sql.ErrNoRows to
// ErrTokenNotFound.
func scanTokenRecord(row rowScanner) (*tokenDomain.TokenRecord, error) {
	var record tokenDomain.TokenRecord
	var entityType, algorithm string

	err := row.Scan(
		&record.ID,
		&record.TokenID,
		&entityType,
		&record.ValueHash,
		&record.Ciphertext,
		&record.Nonce,
		&record.MasterKeyID,
		&algorithm,
		&record.CreatedAt,
		&record.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, piiDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan token record")
	}

	record.EntityType = piiDomain.EntityType(entityType)
	record.Algorithm = cryptoDomain.Algorithm(algorithm)
	return &record, nil
}

// postgresDuplicateError classifies a PostgreSQL unique violation by the
// constraint it hit.
// PostgreSQL: "duplicate key value violates unique constraint \"...\""
func postgresDuplicateError(err error) (error, bool) {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "unique constraint") {
		return nil, false
	}
	if strings.Contains(msg, "token_id") {
		return tokenDomain.ErrDuplicateTokenID, true
	}
	return tokenDomain.ErrDuplicateValue, true
}
