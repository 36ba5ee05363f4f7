package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Fchery87/Rapid-CRM/internal/core/domain"
	"github.com/Fchery87/Rapid-CRM/internal/core/ports/driven"
)

// Ensure Adapter implements CredentialVerifier
var _ driven.CredentialVerifier = (*Adapter)(nil)

// Issuer is stamped on every service token
const Issuer = "rapid-crm"

// jwtClaims wraps domain.TokenClaims for JWT compatibility
type jwtClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Config holds credential configuration. Empty values disable that method.
type Config struct {
	// APIKeyHash is the bcrypt hash of the accepted API key
	APIKeyHash string

	// JWTSecret signs and verifies HS256 service tokens
	JWTSecret string

	// BcryptCost is used by HashAPIKey (defaults to bcrypt.DefaultCost)
	BcryptCost int
}

// Adapter verifies API keys with bcrypt and service tokens with JWT
type Adapter struct {
	apiKeyHash []byte
	jwtSecret  []byte
	bcryptCost int
}

// NewAdapter creates a new auth adapter
func NewAdapter(cfg Config) *Adapter {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	a := &Adapter{bcryptCost: cfg.BcryptCost}
	if cfg.APIKeyHash != "" {
		a.apiKeyHash = []byte(cfg.APIKeyHash)
	}
	if cfg.JWTSecret != "" {
		a.jwtSecret = []byte(cfg.JWTSecret)
	}
	return a
}

// Enabled returns false when no credential is configured
func (a *Adapter) Enabled() bool {
	return len(a.apiKeyHash) > 0 || len(a.jwtSecret) > 0
}

// HashAPIKey generates a bcrypt hash suitable for API_KEY_HASH
func (a *Adapter) HashAPIKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: api key is empty", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAPIKey checks a presented key against the configured hash
func (a *Adapter) VerifyAPIKey(key string) bool {
	if len(a.apiKeyHash) == 0 || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.apiKeyHash, []byte(key)) == nil
}

// GenerateToken creates a signed JWT from domain claims
func (a *Adapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	if len(a.jwtSecret) == 0 {
		return "", fmt.Errorf("%w: no token secret configured", domain.ErrServiceUnavailable)
	}
	jc := jwtClaims{
		Scopes: claims.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a JWT and extracts domain claims
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	if len(a.jwtSecret) == 0 {
		return nil, domain.ErrTokenInvalid
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		Subject: claims.Subject,
		Scopes:  claims.Scopes,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}
