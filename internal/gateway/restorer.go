package gateway

import (
	"context"
	"strings"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

// RestoreWarning explains why a placeholder was left in place.
type RestoreWarning struct {
	Placeholder string `json:"placeholder"`
	Reason      string `json:"reason"`
}

// Restorer replaces placeholders in text with their original values.
//
// Restoration is best effort: a placeholder whose token is unknown, expired,
// outside the caller's token allow-list, or unreachable in the store stays in
// the text and produces a warning. The call itself fails only when the caller
// cancels it.
type Restorer struct {
	store tokenUsecase.TokenStore
	codec *PlaceholderCodec
}

// NewRestorer creates a Restorer.
func NewRestorer(store tokenUsecase.TokenStore, codec *PlaceholderCodec) *Restorer {
	return &Restorer{store: store, codec: codec}
}

// Restore resolves every placeholder in text. When allowed is non-empty it is
// a token ID allow-list: only placeholders carrying one of those token IDs
// are looked up at all, so a caller restoring its own protect output can
// never surface a token minted for someone else. Returns the restored text,
// warnings for skipped placeholders, and the number of successful
// substitutions.
func (r *Restorer) Restore(
	ctx context.Context,
	text string,
	allowed []string,
) (string, []RestoreWarning, int, error) {
	matches := r.codec.FindAll(text)
	if len(matches) == 0 {
		return text, nil, 0, nil
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, tokenID := range allowed {
		allowedSet[tokenID] = struct{}{}
	}

	var (
		builder  strings.Builder
		warnings []RestoreWarning
		restored int
		cursor   int
	)
	builder.Grow(len(text))

	for _, match := range matches {
		builder.WriteString(text[cursor:match.Start])
		cursor = match.End

		replacement, warning, err := r.resolveMatch(ctx, match, allowedSet)
		if err != nil {
			return "", nil, 0, err
		}
		if warning != nil {
			warnings = append(warnings, *warning)
			builder.WriteString(match.Raw)
			continue
		}

		builder.WriteString(replacement)
		restored++
	}
	builder.WriteString(text[cursor:])

	return builder.String(), warnings, restored, nil
}

// resolveMatch resolves one placeholder. A nil warning and nil error means
// the replacement string should be substituted; a non-nil warning means the
// placeholder stays.
func (r *Restorer) resolveMatch(
	ctx context.Context,
	match PlaceholderMatch,
	allowedSet map[string]struct{},
) (string, *RestoreWarning, error) {
	// Scope check comes before any store access: out-of-scope tokens are
	// indistinguishable from unknown ones to the caller.
	if len(allowedSet) > 0 {
		if _, ok := allowedSet[match.TokenID]; !ok {
			return "", &RestoreWarning{Placeholder: match.Raw, Reason: "token not in allowed scope"}, nil
		}
	}

	resolved, err := r.store.Resolve(ctx, match.TokenID)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, err
		}
		return "", &RestoreWarning{Placeholder: match.Raw, Reason: warningReason(err)}, nil
	}

	// A placeholder whose tag disagrees with the stored record was altered
	// in transit; restoring it would hand out a value under the wrong label.
	if resolved.EntityType != match.EntityType {
		return "", &RestoreWarning{Placeholder: match.Raw, Reason: "entity type mismatch"}, nil
	}

	return resolved.Value, nil, nil
}

// warningReason translates a resolve error into a warning reason. Store
// failures degrade to a warning too, so one unreachable record does not keep
// the rest of the text from being restored.
func warningReason(err error) string {
	switch {
	case apperrors.Is(err, piiDomain.ErrTokenExpired):
		return "token expired"
	case apperrors.Is(err, piiDomain.ErrTokenNotFound):
		return "token not found"
	case apperrors.Is(err, piiDomain.ErrInvalidPlaceholder):
		return "invalid token id"
	default:
		return "store unavailable"
	}
}
