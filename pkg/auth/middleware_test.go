package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityEcho records the identity the middleware attached.
func identityEcho(got *Identity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := IdentityFrom(r.Context()); ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequire_BearerToken(t *testing.T) {
	tokens := NewJWTManager("test-secret", time.Hour)
	token, err := tokens.Generate("user-1", "u1@example.com", "producer")
	require.NoError(t, err)

	var got Identity
	handler := NewAuthenticator(tokens, nil).Require(identityEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/productions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "producer", got.Role)
	assert.Equal(t, "jwt", got.Method)
}

func TestRequire_APIKey(t *testing.T) {
	keys := NewAPIKeyManager()
	keys.Add("hc_static", "user-2", "from config")

	var got Identity
	handler := NewAuthenticator(nil, keys).Require(identityEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/productions", nil)
	req.Header.Set("X-API-Key", "hc_static")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", got.UserID)
	assert.Equal(t, "api_key", got.Method)
}

func TestRequire_Rejections(t *testing.T) {
	tokens := NewJWTManager("test-secret", time.Hour)
	keys := NewAPIKeyManager()
	keys.Add("hc_static", "user-2", "from config")

	revokedKeys := NewAPIKeyManager()
	revokedKeys.Add("hc_revoked", "user-2", "old")
	require.NoError(t, revokedKeys.Revoke("hc_revoked"))

	tests := []struct {
		name string
		a    *Authenticator
		prep func(*http.Request)
	}{
		{
			name: "no credentials",
			a:    NewAuthenticator(tokens, keys),
			prep: func(r *http.Request) {},
		},
		{
			name: "bad bearer token",
			a:    NewAuthenticator(tokens, keys),
			prep: func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.token") },
		},
		{
			name: "unknown API key",
			a:    NewAuthenticator(tokens, keys),
			prep: func(r *http.Request) { r.Header.Set("X-API-Key", "hc_other") },
		},
		{
			name: "revoked API key",
			a:    NewAuthenticator(nil, revokedKeys),
			prep: func(r *http.Request) { r.Header.Set("X-API-Key", "hc_revoked") },
		},
		{
			name: "bearer token when scheme disabled",
			a:    NewAuthenticator(nil, keys),
			prep: func(r *http.Request) { r.Header.Set("Authorization", "Bearer whatever") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := tt.a.Require(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/productions", nil)
			tt.prep(req)
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run unauthenticated")
			assert.JSONEq(t, `{"error":"unauthorized","message":"valid bearer token or API key required"}`, rec.Body.String())
		})
	}
}

func TestRequire_FallsBackToAPIKeyAfterBadToken(t *testing.T) {
	tokens := NewJWTManager("test-secret", time.Hour)
	keys := NewAPIKeyManager()
	keys.Add("hc_static", "user-2", "from config")

	var got Identity
	handler := NewAuthenticator(tokens, keys).Require(identityEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/productions", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	req.Header.Set("X-API-Key", "hc_static")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "api_key", got.Method)
}

func TestIdentityFrom_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFrom(req.Context())
	assert.False(t, ok)
}
