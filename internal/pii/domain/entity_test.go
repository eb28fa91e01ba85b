package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/privacyhub/privacy-gateway/internal/errors"
)

func TestEntityTypeFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  EntityType
	}{
		{"PHONE", EntityTypePhone},
		{"phone_number", EntityTypePhone},
		{"Mobile", EntityTypePhone},
		{"id-card", EntityTypeIDNumber},
		{"credit card", EntityTypeBankCard},
		{"EMAIL", EntityTypeEmail},
		{"PER", EntityTypePersonName},
		{" location ", EntityTypeAddress},
		{"ip", EntityTypeIPAddress},
		{"organization", EntityTypeOther},
		{"", EntityTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, EntityTypeFromLabel(tt.label))
		})
	}
}

func TestEntityTypeValid(t *testing.T) {
	for _, et := range AllEntityTypes() {
		assert.True(t, et.Valid(), et.String())
	}
	assert.False(t, EntityType("SOCIAL_SECURITY").Valid())
}

func TestEntityOverlaps(t *testing.T) {
	a := Entity{Start: 0, End: 5}

	assert.True(t, a.Overlaps(Entity{Start: 3, End: 8}))
	assert.True(t, a.Overlaps(Entity{Start: 0, End: 5}))
	assert.True(t, a.Overlaps(Entity{Start: 4, End: 5}))
	assert.False(t, a.Overlaps(Entity{Start: 5, End: 9}))
	assert.False(t, a.Overlaps(Entity{Start: 9, End: 12}))
}

func TestEntityLength(t *testing.T) {
	assert.Equal(t, 11, Entity{Start: 7, End: 18}.Length())
}

func TestErrorClassification(t *testing.T) {
	assert.ErrorIs(t, ErrTokenNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrTokenExpired, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrInvalidPlaceholder, apperrors.ErrInvalidInput)
	assert.ErrorIs(t, ErrScopeMismatch, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrStoreUnavailable, apperrors.ErrUnavailable)
	assert.ErrorIs(t, ErrDetectionFailed, apperrors.ErrUnavailable)
}
