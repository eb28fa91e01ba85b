package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtectRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ProtectRequest{Text: "hello"}).Validate())
	assert.Error(t, (&ProtectRequest{}).Validate())
	assert.Error(t, (&ProtectRequest{Text: strings.Repeat("a", maxTextBytes+1)}).Validate())
}

func TestRestoreRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RestoreRequest{Text: "hello"}).Validate())
	assert.NoError(t, (&RestoreRequest{Text: "hello", TokenIDs: []string{"a1b2c3d4e5f6", "x9y8z7w6v5u4"}}).Validate())
	assert.Error(t, (&RestoreRequest{}).Validate())
	assert.Error(t, (&RestoreRequest{Text: "hello", TokenIDs: []string{"UPPER"}}).Validate())
	assert.Error(t, (&RestoreRequest{Text: "hello", TokenIDs: []string{"has space"}}).Validate())
}
