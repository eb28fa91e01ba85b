package gateway

import (
	"context"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	"github.com/privacyhub/privacy-gateway/internal/pii/detector"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

// ProtectResult is the outcome of a protect operation.
type ProtectResult struct {
	ProtectedText string
	// Tokens maps each placeholder in the protected text to its token ID.
	Tokens      map[string]string
	EntityCount int
	TypeCounts  map[piiDomain.EntityType]int
}

// RestoreResult is the outcome of a restore operation.
type RestoreResult struct {
	RestoredText  string
	Warnings      []RestoreWarning
	RestoredCount int
}

// Status reports the gateway's view of the token store.
type Status struct {
	TotalTokens   int64
	ExpiredTokens int64
}

// Gateway is the service facade: anonymize outbound text, restore inbound
// text.
type Gateway interface {
	// Protect detects PII in text and replaces each occurrence with a
	// placeholder. Detection or store failures abort the call; partially
	// protected text is never returned.
	Protect(ctx context.Context, text string) (*ProtectResult, error)

	// Restore resolves placeholders in text back to original values,
	// best effort. When tokenIDs is non-empty only placeholders carrying
	// one of those token IDs are restored; everything else stays tokenized.
	Restore(ctx context.Context, text string, tokenIDs []string) (*RestoreResult, error)

	// Status reports token store statistics.
	Status(ctx context.Context) (*Status, error)
}

// privacyGateway implements Gateway by composing the detector, tokenizer,
// and restorer.
type privacyGateway struct {
	detector  detector.Detector
	tokenizer *Tokenizer
	restorer  *Restorer
	store     tokenUsecase.TokenStore
}

// NewGateway creates a Gateway.
func NewGateway(
	piiDetector detector.Detector,
	tokenizer *Tokenizer,
	restorer *Restorer,
	store tokenUsecase.TokenStore,
) Gateway {
	return &privacyGateway{
		detector:  piiDetector,
		tokenizer: tokenizer,
		restorer:  restorer,
		store:     store,
	}
}

// Protect runs detection and tokenization over text.
func (g *privacyGateway) Protect(ctx context.Context, text string) (*ProtectResult, error) {
	if text == "" {
		return &ProtectResult{
			ProtectedText: "",
			Tokens:        map[string]string{},
			TypeCounts:    map[piiDomain.EntityType]int{},
		}, nil
	}

	entities, err := g.detector.Detect(ctx, text)
	if err != nil {
		if apperrors.Is(err, piiDomain.ErrDetectionFailed) {
			return nil, err
		}
		return nil, apperrors.Wrapf(piiDomain.ErrDetectionFailed, "%v", err)
	}

	selected := resolveOverlaps(entities)
	protectedText, tokens, err := g.tokenizer.Tokenize(ctx, text, selected)
	if err != nil {
		return nil, err
	}

	typeCounts := make(map[piiDomain.EntityType]int, len(selected))
	for _, entity := range selected {
		typeCounts[entity.Type]++
	}

	return &ProtectResult{
		ProtectedText: protectedText,
		Tokens:        tokens,
		EntityCount:   len(selected),
		TypeCounts:    typeCounts,
	}, nil
}

// Restore resolves placeholders in text.
func (g *privacyGateway) Restore(
	ctx context.Context,
	text string,
	tokenIDs []string,
) (*RestoreResult, error) {
	restoredText, warnings, restored, err := g.restorer.Restore(ctx, text, tokenIDs)
	if err != nil {
		return nil, err
	}

	return &RestoreResult{
		RestoredText:  restoredText,
		Warnings:      warnings,
		RestoredCount: restored,
	}, nil
}

// Status reports token store statistics.
func (g *privacyGateway) Status(ctx context.Context) (*Status, error) {
	stats, err := g.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{
		TotalTokens:   stats.TotalTokens,
		ExpiredTokens: stats.ExpiredTokens,
	}, nil
}
