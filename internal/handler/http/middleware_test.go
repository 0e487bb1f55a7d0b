package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": "cakto"})
	raw, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestWebhookAuth(t *testing.T) {
	const secret = "webhook-secret"

	tests := []struct {
		name           string
		secret         string
		method         string
		authHeader     string
		wantStatusCode int
	}{
		{
			name:           "no_secret_configured_passes",
			secret:         "",
			method:         http.MethodPost,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "valid_token_passes",
			secret:         secret,
			method:         http.MethodPost,
			authHeader:     "Bearer " + signedToken(t, secret),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_token_return_401",
			secret:         secret,
			method:         http.MethodPost,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_key_return_401",
			secret:         secret,
			method:         http.MethodPost,
			authHeader:     "Bearer " + signedToken(t, "other-secret"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "preflight_skips_auth",
			secret:         secret,
			method:         http.MethodOptions,
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/payment/webhook", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			WebhookAuth(tt.secret)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Result().StatusCode)
		})
	}
}

func TestOperatorAuth(t *testing.T) {
	const token = "operator-token"

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name           string
		tokenHash      string
		authHeader     string
		wantStatusCode int
	}{
		{
			name:           "valid_token_passes",
			tokenHash:      string(hash),
			authHeader:     "Bearer " + token,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong_token_return_401",
			tokenHash:      string(hash),
			authHeader:     "Bearer nope",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing_token_return_401",
			tokenHash:      string(hash),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "no_hash_configured_return_403",
			tokenHash:      "",
			authHeader:     "Bearer " + token,
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders/ORD123", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			OperatorAuth(tt.tokenHash)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Result().StatusCode)
		})
	}
}
