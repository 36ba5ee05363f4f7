package driven

import "github.com/Fchery87/Rapid-CRM/internal/core/domain"

// CredentialVerifier checks API keys and service tokens.
type CredentialVerifier interface {
	// Enabled returns false when neither an API key hash nor a token secret is configured.
	Enabled() bool

	// VerifyAPIKey compares a presented key against the configured hash.
	VerifyAPIKey(key string) bool

	// Token operations
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
