package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/privacyhub/privacy-gateway/internal/gateway"
	"github.com/privacyhub/privacy-gateway/internal/gateway/http/dto"
	"github.com/privacyhub/privacy-gateway/internal/gateway/mocks"
	piiDomain "github.com/privacyhub/privacy-gateway/internal/pii/domain"
)

func setupRouter(g gateway.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPrivacyHandler(g, slog.Default())

	router := gin.New()
	router.POST("/v1/privacy/protect", handler.ProtectHandler)
	router.POST("/v1/privacy/restore", handler.RestoreHandler)
	router.GET("/v1/privacy/status", handler.StatusHandler)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestPrivacyHandler_Protect(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On("Protect", mock.Anything, "电话13812345678").Return(&gateway.ProtectResult{
			ProtectedText: "电话[PHONE_a1b2c3d4e5f6]",
			Tokens:        map[string]string{"[PHONE_a1b2c3d4e5f6]": "a1b2c3d4e5f6"},
			EntityCount:   1,
			TypeCounts:    map[piiDomain.EntityType]int{piiDomain.EntityTypePhone: 1},
		}, nil)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/protect", gin.H{"text": "电话13812345678"})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response dto.ProtectResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "电话[PHONE_a1b2c3d4e5f6]", response.ProtectedText)
		assert.Equal(t, 1, response.EntityCount)
		assert.Equal(t, 1, response.TypeCounts["PHONE"])
		mockGateway.AssertExpectations(t)
	})

	t.Run("missing text", func(t *testing.T) {
		router := setupRouter(&mocks.MockGateway{})
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/protect", gin.H{})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		router := setupRouter(&mocks.MockGateway{})

		req := httptest.NewRequest(http.MethodPost, "/v1/privacy/protect", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("detection unavailable", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On("Protect", mock.Anything, "text").Return(nil, piiDomain.ErrDetectionFailed)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/protect", gin.H{"text": "text"})

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestPrivacyHandler_Restore(t *testing.T) {
	t.Run("success with token scope", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On(
			"Restore",
			mock.Anything,
			"[PHONE_a1b2c3d4e5f6]",
			[]string{"a1b2c3d4e5f6"},
		).Return(&gateway.RestoreResult{
			RestoredText:  "13812345678",
			RestoredCount: 1,
		}, nil)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/restore", gin.H{
			"text":      "[PHONE_a1b2c3d4e5f6]",
			"token_ids": []string{"a1b2c3d4e5f6"},
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response dto.RestoreResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "13812345678", response.RestoredText)
		assert.Equal(t, 1, response.RestoredCount)
		assert.Empty(t, response.Warnings)
		mockGateway.AssertExpectations(t)
	})

	t.Run("warnings serialized", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On("Restore", mock.Anything, "[PHONE_unknown12345]", mock.Anything).
			Return(&gateway.RestoreResult{
				RestoredText: "[PHONE_unknown12345]",
				Warnings: []gateway.RestoreWarning{
					{Placeholder: "[PHONE_unknown12345]", Reason: "token not found"},
				},
			}, nil)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/restore", gin.H{
			"text": "[PHONE_unknown12345]",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response dto.RestoreResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Warnings, 1)
		assert.Equal(t, "token not found", response.Warnings[0].Reason)
	})

	t.Run("malformed token id rejected", func(t *testing.T) {
		router := setupRouter(&mocks.MockGateway{})
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/restore", gin.H{
			"text":      "some text",
			"token_ids": []string{"NOT-A-TOKEN"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On("Restore", mock.Anything, "text", mock.Anything).
			Return(nil, piiDomain.ErrStoreUnavailable)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodPost, "/v1/privacy/restore", gin.H{"text": "text"})

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestPrivacyHandler_Status(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On("Status", mock.Anything).Return(&gateway.Status{
			TotalTokens:   42,
			ExpiredTokens: 3,
		}, nil)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodGet, "/v1/privacy/status", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response dto.StatusResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Enabled)
		assert.Equal(t, int64(42), response.TokenCount)
		assert.Equal(t, int64(3), response.ExpiredTokens)
		assert.Contains(t, response.PIITypes, "PHONE")
		assert.Contains(t, response.PIITypes, "EMAIL")
	})

	t.Run("store unavailable", func(t *testing.T) {
		mockGateway := &mocks.MockGateway{}
		mockGateway.On("Status", mock.Anything).Return(nil, piiDomain.ErrStoreUnavailable)

		router := setupRouter(mockGateway)
		recorder := performJSON(t, router, http.MethodGet, "/v1/privacy/status", nil)

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}
