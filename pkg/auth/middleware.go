package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity is the authenticated caller attached to a request context.
// Handlers read it to attribute the runs they create.
type Identity struct {
	UserID string
	Email  string
	Role   string
	// Method records how the caller authenticated: "jwt" or "api_key".
	Method string
}

type identityKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Authenticator verifies bearer tokens and API keys. Either manager
// may be nil, which disables that scheme.
type Authenticator struct {
	tokens *JWTManager
	keys   *APIKeyManager
}

// NewAuthenticator creates an authenticator over the given managers.
func NewAuthenticator(tokens *JWTManager, keys *APIKeyManager) *Authenticator {
	return &Authenticator{tokens: tokens, keys: keys}
}

// Require wraps a handler so it only runs for authenticated requests,
// with the caller's identity on the request context. Unauthenticated
// requests get a 401 JSON error.
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.authenticate(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"valid bearer token or API key required"}`))
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), id)))
	}
}

func (a *Authenticator) authenticate(r *http.Request) (Identity, bool) {
	if a.tokens != nil {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			claims, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err == nil {
				return Identity{
					UserID: claims.UserID,
					Email:  claims.Email,
					Role:   claims.Role,
					Method: "jwt",
				}, true
			}
		}
	}

	if a.keys != nil {
		if key := r.Header.Get("X-API-Key"); key != "" {
			apiKey, err := a.keys.Verify(key)
			if err == nil {
				return Identity{UserID: apiKey.UserID, Method: "api_key"}, true
			}
		}
	}

	return Identity{}, false
}
