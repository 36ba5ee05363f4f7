package domain

import "time"

// Scopes granted to service tokens
const (
	ScopeParse = "parse"
	ScopeRead  = "read"
)

// TokenClaims represents the service-token payload
type TokenClaims struct {
	Subject   string   `json:"sub"`
	Scopes    []string `json:"scopes"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
}

// NewTokenClaims creates claims valid for ttl from now
func NewTokenClaims(subject string, scopes []string, ttl time.Duration) *TokenClaims {
	now := time.Now()
	return &TokenClaims{
		Subject:   subject,
		Scopes:    scopes,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

// HasScope checks if the claims grant a scope
func (c *TokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope || s == "*" {
			return true
		}
	}
	return false
}

// Principal identifies the caller of an API request
type Principal struct {
	Subject string   `json:"subject"`
	Method  string   `json:"method"` // "api_key", "token" or "anonymous"
	Scopes  []string `json:"scopes"`
}

// AnonymousPrincipal is used when the API runs without credentials configured
var AnonymousPrincipal = &Principal{Subject: "anonymous", Method: "anonymous", Scopes: []string{"*"}}

// HasScope checks if the principal may perform an action
func (p *Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope || s == "*" {
			return true
		}
	}
	return false
}
