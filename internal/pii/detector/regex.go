package detector

import (
	"context"
	"sort"
	"unicode/utf8"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// RegexDetector detects PII with a fixed set of regular-expression rules.
// It is stateless and safe for concurrent use.
type RegexDetector struct {
	rules         []Rule
	minConfidence float64
}

// NewRegexDetector creates a detector over the given rules, dropping matches
// whose rule confidence is below minConfidence.
func NewRegexDetector(rules []Rule, minConfidence float64) *RegexDetector {
	return &RegexDetector{rules: rules, minConfidence: minConfidence}
}

// NewDefaultDetector creates a detector with the built-in rule set.
func NewDefaultDetector(minConfidence float64) *RegexDetector {
	return NewRegexDetector(DefaultRules(), minConfidence)
}

// Detect runs every rule over the text and returns all matches as entities
// with rune-offset spans, sorted by start offset. Overlapping matches from
// different rules are returned as-is.
func (d *RegexDetector) Detect(ctx context.Context, text string) ([]piiDomain.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, piiDomain.ErrDetectionFailed
	}
	if text == "" {
		return nil, nil
	}

	// regexp reports byte offsets; spans are exposed in runes so that
	// multi-byte scripts around a match don't shift downstream replacement.
	runeAt := buildRuneOffsets(text)

	var entities []piiDomain.Entity
	for _, rule := range d.rules {
		if rule.Confidence < d.minConfidence {
			continue
		}
		for _, loc := range rule.Pattern.FindAllStringIndex(text, -1) {
			entities = append(entities, piiDomain.Entity{
				Value:      text[loc[0]:loc[1]],
				Type:       rule.Type,
				Start:      runeAt[loc[0]],
				End:        runeAt[loc[1]],
				Confidence: rule.Confidence,
			})
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
	return entities, nil
}

// buildRuneOffsets maps every byte offset of text (inclusive of len(text))
// to its rune offset.
func buildRuneOffsets(text string) []int {
	offsets := make([]int, len(text)+1)
	runeIdx := 0
	for byteIdx := 0; byteIdx < len(text); {
		_, size := utf8.DecodeRuneInString(text[byteIdx:])
		for i := 0; i < size; i++ {
			offsets[byteIdx+i] = runeIdx
		}
		byteIdx += size
		runeIdx++
	}
	offsets[len(text)] = runeIdx
	return offsets
}
