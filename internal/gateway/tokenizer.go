package gateway

import (
	"context"
	"sort"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

// Tokenizer replaces detected entities in text with placeholders, acquiring
// tokens from the store.
type Tokenizer struct {
	store tokenUsecase.TokenStore
	codec *PlaceholderCodec
}

// NewTokenizer creates a Tokenizer.
func NewTokenizer(store tokenUsecase.TokenStore, codec *PlaceholderCodec) *Tokenizer {
	return &Tokenizer{store: store, codec: codec}
}

// Tokenize replaces every selected entity span in text with its placeholder
// and returns the protected text plus a placeholder-to-token-ID map.
//
// Overlapping detections are resolved before replacement: higher confidence
// wins, then the longer span, then the earlier start. Replacement proceeds
// from the highest span downward so earlier offsets stay valid while later
// ones are rewritten.
//
// Any store failure aborts the whole call. Returning text with some values
// tokenized and others raw would defeat the point of protection.
func (t *Tokenizer) Tokenize(
	ctx context.Context,
	text string,
	entities []piiDomain.Entity,
) (string, map[string]string, error) {
	selected := resolveOverlaps(entities)
	if len(selected) == 0 {
		return text, map[string]string{}, nil
	}

	runes := []rune(text)
	tokens := make(map[string]string, len(selected))

	for i := len(selected) - 1; i >= 0; i-- {
		entity := selected[i]
		if entity.Start < 0 || entity.End > len(runes) || entity.Start >= entity.End {
			return "", nil, apperrors.Wrapf(apperrors.ErrInvalidInput,
				"entity span [%d,%d) out of bounds for text of %d runes", entity.Start, entity.End, len(runes))
		}

		tokenID, err := t.store.GetOrCreate(ctx, entity.Type, entity.Value)
		if err != nil {
			return "", nil, err
		}

		placeholder := t.codec.Format(entity.Type, tokenID)
		tokens[placeholder] = tokenID

		runes = append(runes[:entity.Start], append([]rune(placeholder), runes[entity.End:]...)...)
	}

	return string(runes), tokens, nil
}

// resolveOverlaps picks a non-overlapping subset of entities. Candidates are
// ranked by confidence, then span length, then start offset; each candidate
// is kept only if it doesn't intersect an already-kept span. The result is
// ordered by start offset.
func resolveOverlaps(entities []piiDomain.Entity) []piiDomain.Entity {
	if len(entities) == 0 {
		return nil
	}

	ranked := make([]piiDomain.Entity, len(entities))
	copy(ranked, entities)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		if ranked[i].Length() != ranked[j].Length() {
			return ranked[i].Length() > ranked[j].Length()
		}
		return ranked[i].Start < ranked[j].Start
	})

	var selected []piiDomain.Entity
	for _, candidate := range ranked {
		conflict := false
		for _, kept := range selected {
			if candidate.Overlaps(kept) {
				conflict = true
				break
			}
		}
		if !conflict {
			selected = append(selected, candidate)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Start < selected[j].Start
	})
	return selected
}
