package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/privacyhub/privacy-gateway/internal/database"
	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenDomain "github.com/privacyhub/privacy-gateway/internal/token/domain"
)

// MySQLTokenRepository implements token record persistence for MySQL databases.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository instance.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new token record. Returns ErrDuplicateValue when the value
// hash is already mapped and ErrDuplicateTokenID when the generated token ID
// collides.
func (m *MySQLTokenRepository) Create(ctx context.Context, record *tokenDomain.TokenRecord) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO pii_tokens
			  (id, token_id, entity_type, value_hash, ciphertext, nonce, master_key_id, algorithm, created_at, expires_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// MySQL stores UUIDs as BINARY(16)
	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		if dup, ok := mysqlDuplicateError(err); ok {
			return dup
		}
		return apperrors.Wrap(err, "failed to create token record")
	}
	return nil
}

// GetByTokenID retrieves a token record by its token ID.
func (m *MySQLTokenRepository) GetByTokenID(
	ctx context.Context,
	tokenID string,
) (*tokenDomain.TokenRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_id, entity_type, value_hash, ciphertext, nonce, master_key_id, algorithm, created_at, expires_at
			  FROM pii_tokens
			  WHERE token_id = ?`

	return scanTokenRecord(querier.QueryRowContext(ctx, query, tokenID))
}

// GetByValueHash retrieves the token record mapped to a value hash.
func (m *MySQLTokenRepository) GetByValueHash(
	ctx context.Context,
	valueHash string,
) (*tokenDomain.TokenRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_id, entity_type, value_hash, ciphertext, nonce, master_key_id, algorithm, created_at, expires_at
			  FROM pii_tokens
			  WHERE value_hash = ?`

	return scanTokenRecord(querier.QueryRowContext(ctx, query, valueHash))
}

// Delete removes a token record by its token ID.
func (m *MySQLTokenRepository) Delete(ctx context.Context, tokenID string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM pii_tokens WHERE token_id = ?`

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
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM pii_tokens WHERE expires_at < ?`

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
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM pii_tokens WHERE expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired token records")
	}

	return count, nil
}

// Count returns the total number of token records.
func (m *MySQLTokenRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM pii_tokens`

	var count int64
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count token records")
	}

	return count, nil
}

// mysqlDuplicateError classifies a MySQL duplicate entry error (number 1062)
// by the index named in its message.
func mysqlDuplicateError(err error) (error, bool) {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return nil, false
	}
	if strings.Contains(strings.ToLower(mysqlErr.Message), "token_id") {
		return tokenDomain.ErrDuplicateTokenID, true
	}
	return tokenDomain.ErrDuplicateValue, true
}
