package handler

import (
	"bytes"
	"chitfund-engine/internal/api/handler/dto"
	"chitfund-engine/internal/config"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testSecret = "test-jwt-secret-key"

func TestGenerateBearerToken(t *testing.T) {
	handler := NewAuthHandler(config.AuthConfig{Enabled: true, JWTSecret: testSecret}, logger)
	fixed := time.Now().Truncate(time.Second)
	handler.now = func() time.Time { return fixed }

	t.Run("successfully generates token", func(t *testing.T) {
		body, _ := json.Marshal(dto.TokenRequest{Username: "collector"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.GenerateBearerToken(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var respBody map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&respBody))
		require.True(t, strings.HasPrefix(respBody["token"], "Bearer "))

		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(respBody["token"], "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		require.NoError(t, err)
		assert.Equal(t, "collector", claims.Subject)
		assert.Equal(t, fixed.Add(tokenTTL).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("fails with invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString("invalid-json"))
		w := httptest.NewRecorder()

		handler.GenerateBearerToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":""}`))
		w := httptest.NewRecorder()

		handler.GenerateBearerToken(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "username", resp.Error.Field)
	})

	t.Run("fails without secret", func(t *testing.T) {
		h := NewAuthHandler(config.AuthConfig{}, logger)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":"collector"}`))
		w := httptest.NewRecorder()

		h.GenerateBearerToken(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
