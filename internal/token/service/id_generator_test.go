package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIDGenerator_Generate(t *testing.T) {
	g := NewTokenIDGenerator()

	t.Run("valid length", func(t *testing.T) {
		id, err := g.Generate(12)
		require.NoError(t, err)
		assert.Len(t, id, 12)
		assert.NoError(t, g.Validate(id))
	})

	t.Run("length too small", func(t *testing.T) {
		_, err := g.Generate(7)
		assert.Error(t, err)
	})

	t.Run("length too large", func(t *testing.T) {
		_, err := g.Generate(65)
		assert.Error(t, err)
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			id, err := g.Generate(12)
			require.NoError(t, err)
			_, dup := seen[id]
			assert.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	})
}

func TestTokenIDGenerator_Validate(t *testing.T) {
	g := NewTokenIDGenerator()

	assert.NoError(t, g.Validate("a1b2c3d4e5f6"))
	assert.Error(t, g.Validate(""))
	assert.Error(t, g.Validate("ABC123"))
	assert.Error(t, g.Validate("a1b2-c3d4"))
	assert.Error(t, g.Validate("a1b2 c3d4"))
}
