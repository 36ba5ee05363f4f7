package domain

import (
	"testing"
	"time"
)

func TestNewTokenClaims(t *testing.T) {
	claims := NewTokenClaims("ingest-svc", []string{ScopeParse}, time.Hour)

	if claims.Subject != "ingest-svc" {
		t.Errorf("expected subject ingest-svc, got %s", claims.Subject)
	}
	if claims.ExpiresAt-claims.IssuedAt != 3600 {
		t.Errorf("expected 1h validity, got %ds", claims.ExpiresAt-claims.IssuedAt)
	}
	if !claims.HasScope(ScopeParse) {
		t.Error("expected parse scope")
	}
	if claims.HasScope(ScopeRead) {
		t.Error("unexpected read scope")
	}
}

func TestPrincipal_HasScope(t *testing.T) {
	if !AnonymousPrincipal.HasScope(ScopeRead) {
		t.Error("anonymous principal should have every scope")
	}
	p := &Principal{Subject: "svc", Method: "token", Scopes: []string{ScopeRead}}
	if p.HasScope(ScopeParse) {
		t.Error("unexpected parse scope")
	}
}
