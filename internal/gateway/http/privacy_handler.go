// Package http provides HTTP handlers for the privacy gateway operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/privacyhub/privacy-gateway/internal/gateway"
	"github.com/privacyhub/privacy-gateway/internal/gateway/http/dto"
	"github.com/privacyhub/privacy-gateway/internal/httputil"
	customValidation "github.com/privacyhub/privacy-gateway/internal/validation"
)

// PrivacyHandler handles HTTP requests for protect, restore, and status
// operations.
type PrivacyHandler struct {
	gateway gateway.Gateway
	logger  *slog.Logger
}

// NewPrivacyHandler creates a new privacy handler with required dependencies.
func NewPrivacyHandler(g gateway.Gateway, logger *slog.Logger) *PrivacyHandler {
	return &PrivacyHandler{
		gateway: g,
		logger:  logger,
	}
}

// ProtectHandler anonymizes PII in the submitted text.
// POST /v1/privacy/protect
// Returns 200 OK with the protected text and placeholder-to-token map.
func (h *PrivacyHandler) ProtectHandler(c *gin.Context) {
	var req dto.ProtectRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.gateway.Protect(c.Request.Context(), req.Text)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProtectResult(result))
}

// RestoreHandler resolves placeholders in the submitted text back to their
// original values, best effort.
// POST /v1/privacy/restore
// Returns 200 OK with the restored text and warnings for any placeholders
// left in place.
func (h *PrivacyHandler) RestoreHandler(c *gin.Context) {
	var req dto.RestoreRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.gateway.Restore(c.Request.Context(), req.Text, req.TokenIDs)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRestoreResult(result))
}

// StatusHandler reports token store statistics.
// GET /v1/privacy/status
// Returns 200 OK with token counts.
func (h *PrivacyHandler) StatusHandler(c *gin.Context) {
	status, err := h.gateway.Status(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatus(status))
}
