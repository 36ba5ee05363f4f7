package mocks

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

// Ensure MockCredentialVerifier implements CredentialVerifier
var _ driven.CredentialVerifier = (*MockCredentialVerifier)(nil)

// MockCredentialVerifier is a mock implementation of CredentialVerifier for testing.
// It compares API keys in plain text and uses base64-encoded JSON for tokens.
// NOT secure - only for testing.
type MockCredentialVerifier struct {
	APIKey        string
	TokensEnabled bool
}

// NewMockCredentialVerifier creates a verifier accepting apiKey.
// An empty key with tokens disabled leaves the API open.
func NewMockCredentialVerifier(apiKey string, tokens bool) *MockCredentialVerifier {
	return &MockCredentialVerifier{APIKey: apiKey, TokensEnabled: tokens}
}

func (m *MockCredentialVerifier) Enabled() bool {
	return m.APIKey != "" || m.TokensEnabled
}

// VerifyAPIKey compares the key directly (for testing only)
func (m *MockCredentialVerifier) VerifyAPIKey(key string) bool {
	return m.APIKey != "" && key == m.APIKey
}

// GenerateToken creates a base64-encoded JSON token from claims
func (m *MockCredentialVerifier) GenerateToken(claims *domain.TokenClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ParseToken decodes a base64-encoded JSON token and returns claims
func (m *MockCredentialVerifier) ParseToken(token string) (*domain.TokenClaims, error) {
	if !m.TokensEnabled {
		return nil, domain.ErrTokenInvalid
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claims domain.TokenClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if claims.ExpiresAt != 0 && time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	return &claims, nil
}
