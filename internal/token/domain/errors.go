package domain

import (
	"github.com/privacyhub/privacy-gateway/internal/errors"
)

var (
	// ErrDuplicateValue indicates another record already holds this value
	// hash. Callers treat this as "someone else created the mapping first"
	// and re-read instead of failing.
	ErrDuplicateValue = errors.Wrap(errors.ErrConflict, "value already tokenized")

	// ErrDuplicateTokenID indicates a generated token ID collided with an
	// existing record.
	ErrDuplicateTokenID = errors.Wrap(errors.ErrConflict, "token id already exists")
)
