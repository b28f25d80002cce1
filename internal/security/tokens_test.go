package security

import (
	"testing"
	"time"
)

func TestIssueAndValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	token, jti, expiresAt, err := p.IssueAccess("sess-1", "user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if jti == "" {
		t.Error("jti should be set")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiresAt should be in the future")
	}
	sessionID, userID, err := p.ValidateAccess(token)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if sessionID != "sess-1" || userID != "user-1" {
		t.Errorf("got (%q, %q), want (sess-1, user-1)", sessionID, userID)
	}
}

func TestIssueAndValidateRefresh(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	token, issuedJti, _, err := p.IssueRefresh("sess-2", "user-2")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	sessionID, jti, userID, err := p.ValidateRefresh(token)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if sessionID != "sess-2" || userID != "user-2" {
		t.Errorf("got (%q, %q), want (sess-2, user-2)", sessionID, userID)
	}
	if jti != issuedJti {
		t.Errorf("jti = %q, want %q", jti, issuedJti)
	}
}

func TestTokenUseIsEnforced(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	access, _, _, err := p.IssueAccess("sess-1", "user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, _, _, err := p.IssueRefresh("sess-1", "user-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, _, _, err := p.ValidateRefresh(access); err == nil {
		t.Error("access token must not validate as refresh")
	}
	if _, _, err := p.ValidateAccess(refresh); err == nil {
		t.Error("refresh token must not validate as access")
	}
}

func TestValidate_Garbage(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	if _, _, err := p.ValidateAccess("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, _, _, err := p.ValidateRefresh(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	issuerA := NewTokenProvider(signer, pub, "issuer-a", "aud", time.Minute, time.Hour)
	issuerB := NewTokenProvider(signer, pub, "issuer-b", "aud", time.Minute, time.Hour)
	token, _, _, err := issuerA.IssueAccess("s", "u")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, _, err := issuerB.ValidateAccess(token); err == nil {
		t.Error("token from another issuer must not validate")
	}
}
