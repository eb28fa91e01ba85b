// Package gateway implements the protect and restore pipeline: detection,
// tokenization, and best-effort restoration of PII placeholders.
package gateway

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// PlaceholderCodec formats and parses placeholders of the form
// [ENTITYTYPE_tokenid]. The entity tag is uppercase and the token ID is
// lowercase alphanumeric, so the boundary between them is unambiguous even
// though entity tags contain underscores.
//
// Delimiters are configurable for callers whose payloads already use square
// brackets heavily.
type PlaceholderCodec struct {
	open    string
	close   string
	pattern *regexp.Regexp
}

// PlaceholderMatch is a placeholder found in text, with byte offsets into the
// scanned string (end exclusive).
type PlaceholderMatch struct {
	Raw        string
	EntityType piiDomain.EntityType
	TokenID    string
	Start      int
	End        int
}

// NewPlaceholderCodec creates a codec with the given delimiters. Delimiters
// must be non-empty and must not contain characters that can appear inside a
// placeholder body.
func NewPlaceholderCodec(open, close string) (*PlaceholderCodec, error) {
	if open == "" || close == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "placeholder delimiters cannot be empty")
	}
	for _, delim := range []string{open, close} {
		if strings.ContainsAny(delim, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_") {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "placeholder delimiters cannot contain alphanumerics or underscores")
		}
	}

	pattern, err := regexp.Compile(
		regexp.QuoteMeta(open) + `([A-Z][A-Z_]*[A-Z])_([a-z0-9]+)` + regexp.QuoteMeta(close),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to compile placeholder pattern")
	}

	return &PlaceholderCodec{open: open, close: close, pattern: pattern}, nil
}

// Format renders the placeholder for an entity type and token ID.
func (c *PlaceholderCodec) Format(entityType piiDomain.EntityType, tokenID string) string {
	return fmt.Sprintf("%s%s_%s%s", c.open, entityType, tokenID, c.close)
}

// Parse extracts the entity type and token ID from a single placeholder.
// The input must be exactly one placeholder with nothing around it.
func (c *PlaceholderCodec) Parse(placeholder string) (piiDomain.EntityType, string, error) {
	groups := c.pattern.FindStringSubmatch(placeholder)
	if groups == nil || groups[0] != placeholder {
		return "", "", apperrors.Wrapf(piiDomain.ErrInvalidPlaceholder, "%q", placeholder)
	}
	return piiDomain.EntityType(groups[1]), groups[2], nil
}

// FindAll scans text and returns every well-formed placeholder in order of
// appearance. Malformed near-placeholders are skipped, not reported; the
// restorer treats them as ordinary text.
func (c *PlaceholderCodec) FindAll(text string) []PlaceholderMatch {
	locs := c.pattern.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}

	matches := make([]PlaceholderMatch, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, PlaceholderMatch{
			Raw:        text[loc[0]:loc[1]],
			EntityType: piiDomain.EntityType(text[loc[2]:loc[3]]),
			TokenID:    text[loc[4]:loc[5]],
			Start:      loc[0],
			End:        loc[1],
		})
	}
	return matches
}

// ContainsPlaceholder reports whether text holds at least one well-formed
// placeholder.
func (c *PlaceholderCodec) ContainsPlaceholder(text string) bool {
	return c.pattern.MatchString(text)
}
