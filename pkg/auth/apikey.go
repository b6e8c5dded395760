// Package auth authenticates API callers with bearer tokens or
// pre-issued API keys and attaches the caller's identity to the
// request context so handlers can attribute runs to their owner.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrKeyUnknown is returned for keys that were never issued.
	ErrKeyUnknown = errors.New("unknown API key")

	// ErrKeyRevoked is returned for keys that have been revoked.
	ErrKeyRevoked = errors.New("API key revoked")

	// ErrKeyExpired is returned for keys past their expiry.
	ErrKeyExpired = errors.New("API key expired")
)

// keyPrefix marks keys issued by this service.
const keyPrefix = "hc_"

// APIKey is one issued key and who it belongs to.
type APIKey struct {
	Key       string     `json:"key"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Revoked   bool       `json:"revoked"`
}

// APIKeyManager holds issued keys, safe for concurrent access.
type APIKeyManager struct {
	mu   sync.RWMutex
	keys map[string]*APIKey
}

// NewAPIKeyManager creates an empty key manager.
func NewAPIKeyManager() *APIKeyManager {
	return &APIKeyManager{keys: make(map[string]*APIKey)}
}

// Add registers a pre-issued key, e.g. loaded from config at startup.
func (m *APIKeyManager) Add(key, userID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = &APIKey{
		Key:       key,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// Issue mints a new random key for a user. A nil expiresAt means the
// key never expires.
func (m *APIKeyManager) Issue(userID, name string, expiresAt *time.Time) (*APIKey, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}

	apiKey := &APIKey{
		Key:       keyPrefix + base64.URLEncoding.EncodeToString(raw),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}

	m.mu.Lock()
	m.keys[apiKey.Key] = apiKey
	m.mu.Unlock()
	return apiKey, nil
}

// Verify resolves a presented key to its record.
func (m *APIKeyManager) Verify(key string) (*APIKey, error) {
	m.mu.RLock()
	apiKey, ok := m.keys[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrKeyUnknown
	}
	if apiKey.Revoked {
		return nil, ErrKeyRevoked
	}
	if apiKey.ExpiresAt != nil && time.Now().After(*apiKey.ExpiresAt) {
		return nil, ErrKeyExpired
	}
	return apiKey, nil
}

// Revoke marks a key as revoked.
func (m *APIKeyManager) Revoke(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	apiKey, ok := m.keys[key]
	if !ok {
		return ErrKeyUnknown
	}
	apiKey.Revoked = true
	return nil
}

// List returns all keys issued to a user, revoked ones included.
func (m *APIKeyManager) List(userID string) []*APIKey {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []*APIKey
	for _, apiKey := range m.keys {
		if apiKey.UserID == userID {
			keys = append(keys, apiKey)
		}
	}
	return keys
}
