// Package domain defines the core PII entity model shared by the detector,
// tokenizer, and restorer.
package domain

import (
	"strings"
)

// EntityType is the closed set of PII categories the gateway understands.
// Detector adapters translate whatever labels an external model emits into
// this set; labels that don't map fall back to EntityTypeOther.
type EntityType string

const (
	EntityTypePhone      EntityType = "PHONE"
	EntityTypeIDNumber   EntityType = "ID_NUMBER"
	EntityTypeBankCard   EntityType = "BANK_CARD"
	EntityTypeEmail      EntityType = "EMAIL"
	EntityTypePersonName EntityType = "PERSON_NAME"
	EntityTypeAddress    EntityType = "ADDRESS"
	EntityTypeIPAddress  EntityType = "IP_ADDRESS"
	EntityTypeOther      EntityType = "OTHER"
)

// AllEntityTypes lists every known entity type in a stable order.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityTypePhone,
		EntityTypeIDNumber,
		EntityTypeBankCard,
		EntityTypeEmail,
		EntityTypePersonName,
		EntityTypeAddress,
		EntityTypeIPAddress,
		EntityTypeOther,
	}
}

// entityTypeAliases maps common free-form detector labels to entity types.
// Keys are upper-cased before lookup.
var entityTypeAliases = map[string]EntityType{
	"PHONE":        EntityTypePhone,
	"PHONE_NUMBER": EntityTypePhone,
	"MOBILE":       EntityTypePhone,
	"TEL":          EntityTypePhone,
	"ID_NUMBER":    EntityTypeIDNumber,
	"ID_CARD":      EntityTypeIDNumber,
	"SSN":          EntityTypeIDNumber,
	"NATIONAL_ID":  EntityTypeIDNumber,
	"BANK_CARD":    EntityTypeBankCard,
	"CREDIT_CARD":  EntityTypeBankCard,
	"CARD_NUMBER":  EntityTypeBankCard,
	"EMAIL":        EntityTypeEmail,
	"PERSON_NAME":  EntityTypePersonName,
	"PERSON":       EntityTypePersonName,
	"NAME":         EntityTypePersonName,
	"PER":          EntityTypePersonName,
	"ADDRESS":      EntityTypeAddress,
	"LOCATION":     EntityTypeAddress,
	"LOC":          EntityTypeAddress,
	"IP_ADDRESS":   EntityTypeIPAddress,
	"IP":           EntityTypeIPAddress,
}

// EntityTypeFromLabel maps a free-form detector label to an EntityType.
// Unknown labels map to EntityTypeOther rather than failing, so a model with
// a richer label set degrades gracefully.
func EntityTypeFromLabel(label string) EntityType {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if t, ok := entityTypeAliases[normalized]; ok {
		return t
	}
	return EntityTypeOther
}

// Valid reports whether the entity type is one of the known tags.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypePhone, EntityTypeIDNumber, EntityTypeBankCard, EntityTypeEmail,
		EntityTypePersonName, EntityTypeAddress, EntityTypeIPAddress, EntityTypeOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the entity type.
func (t EntityType) String() string {
	return string(t)
}

// Entity is a single PII candidate produced by a detector. Entities are
// ephemeral: they exist only for the duration of a protect call and are
// never persisted.
//
// Start and End are rune offsets into the exact input text (end exclusive),
// so multi-byte scripts keep stable spans.
type Entity struct {
	Value      string
	Type       EntityType
	Start      int
	End        int
	Confidence float64
}

// Length returns the span length in runes.
func (e Entity) Length() int {
	return e.End - e.Start
}

// Overlaps reports whether two spans intersect.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}
