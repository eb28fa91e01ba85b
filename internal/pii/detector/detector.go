// Package detector finds PII candidates in free text.
//
// The detection boundary is pluggable: the default implementation is a set of
// regular-expression rules, but anything that can produce entities with rune
// spans and confidence scores (an NER model, a remote service) can sit behind
// the Detector interface.
package detector

import (
	"context"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// Detector analyzes text and returns PII candidates.
//
// Implementations must return entities with rune offsets into the exact input
// text and must not retain the input after returning. Returned spans may
// overlap; the tokenizer resolves overlaps downstream.
type Detector interface {
	Detect(ctx context.Context, text string) ([]piiDomain.Entity, error)
}

// HasPII reports whether the detector finds at least one entity in text.
func HasPII(ctx context.Context, d Detector, text string) (bool, error) {
	entities, err := d.Detect(ctx, text)
	if err != nil {
		return false, err
	}
	return len(entities) > 0, nil
}

// DetectTypes returns the distinct entity types found in text, in first-seen
// order.
func DetectTypes(ctx context.Context, d Detector, text string) ([]piiDomain.EntityType, error) {
	entities, err := d.Detect(ctx, text)
	if err != nil {
		return nil, err
	}

	seen := make(map[piiDomain.EntityType]struct{}, len(entities))
	var types []piiDomain.EntityType
	for _, e := range entities {
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		types = append(types, e.Type)
	}
	return types, nil
}
