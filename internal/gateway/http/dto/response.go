package dto

import (
	"github.com/privacyhub/privacy-gateway/internal/gateway"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

// ProtectResponse is the payload returned by the protect endpoint.
type ProtectResponse struct {
	ProtectedText string            `json:"protected_text"`
	Tokens        map[string]string `json:"tokens"`
	EntityCount   int               `json:"entity_count"`
	TypeCounts    map[string]int    `json:"type_counts"`
}

// MapProtectResult converts a gateway result to the response payload.
func MapProtectResult(result *gateway.ProtectResult) ProtectResponse {
	typeCounts := make(map[string]int, len(result.TypeCounts))
	for entityType, count := range result.TypeCounts {
		typeCounts[entityType.String()] = count
	}

	return ProtectResponse{
		ProtectedText: result.ProtectedText,
		Tokens:        result.Tokens,
		EntityCount:   result.EntityCount,
		TypeCounts:    typeCounts,
	}
}

// RestoreResponse is the payload returned by the restore endpoint.
type RestoreResponse struct {
	RestoredText  string                   `json:"restored_text"`
	Warnings      []gateway.RestoreWarning `json:"warnings"`
	RestoredCount int                      `json:"restored_count"`
}

// MapRestoreResult converts a gateway result to the response payload.
func MapRestoreResult(result *gateway.RestoreResult) RestoreResponse {
	warnings := result.Warnings
	if warnings == nil {
		warnings = []gateway.RestoreWarning{}
	}

	return RestoreResponse{
		RestoredText:  result.RestoredText,
		Warnings:      warnings,
		RestoredCount: result.RestoredCount,
	}
}

// StatusResponse is the payload returned by the status endpoint. Enabled
// reports that protection is active, and PIITypes lists the entity categories
// the gateway recognizes.
type StatusResponse struct {
	Enabled       bool     `json:"enabled"`
	TokenCount    int64    `json:"token_count"`
	ExpiredTokens int64    `json:"expired_tokens"`
	PIITypes      []string `json:"pii_types"`
}

// MapStatus converts gateway status to the response payload.
func MapStatus(status *gateway.Status) StatusResponse {
	entityTypes := piiDomain.AllEntityTypes()
	piiTypes := make([]string, 0, len(entityTypes))
	for _, entityType := range entityTypes {
		piiTypes = append(piiTypes, entityType.String())
	}

	return StatusResponse{
		Enabled:       true,
		TokenCount:    status.TotalTokens,
		ExpiredTokens: status.ExpiredTokens,
		PIITypes:      piiTypes,
	}
}
