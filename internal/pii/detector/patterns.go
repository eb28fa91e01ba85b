package detector

import (
	"regexp"

	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// Rule binds a compiled pattern to the entity type it detects and the
// confidence assigned to its matches. Structured identifiers with checksum-like
// formats (ID numbers, bank cards) score higher than loosely shaped ones.
type Rule struct {
	Type       piiDomain.EntityType
	Pattern    *regexp.Regexp
	Confidence float64
}

// DefaultRules returns the built-in detection rule set, tuned for mainland
// China identifier formats plus universal ones (email, IPv4).
//
// Rule order matters for overlap resolution only through confidence; the
// tokenizer breaks ties by span length and position. The 18-digit resident ID
// rule deliberately outranks phone and bank card so that digit runs embedded
// in an ID are not claimed piecemeal.
func DefaultRules() []Rule {
	return []Rule{
		{
			// 18-digit resident identity number, last digit may be a checksum X
			Type:       piiDomain.EntityTypeIDNumber,
			Pattern:    regexp.MustCompile(`\d{17}[\dXx]`),
			Confidence: 0.95,
		},
		{
			// Union Pay card numbers start with 62; other schemes 60-69 range
			Type:       piiDomain.EntityTypeBankCard,
			Pattern:    regexp.MustCompile(`6[2-9]\d{14,17}`),
			Confidence: 0.85,
		},
		{
			// Mainland mobile numbers: 11 digits starting 13-19
			Type:       piiDomain.EntityTypePhone,
			Pattern:    regexp.MustCompile(`1[3-9]\d{9}`),
			Confidence: 0.9,
		},
		{
			Type:       piiDomain.EntityTypeEmail,
			Pattern:    regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
			Confidence: 0.9,
		},
		{
			Type:       piiDomain.EntityTypeIPAddress,
			Pattern:    regexp.MustCompile(`(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)`),
			Confidence: 0.7,
		},
	}
}
