package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"authgate/internal/security"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"standard", "Bearer abc123", "abc123"},
		{"lowercase", "bearer abc123", "abc123"},
		{"extra whitespace", "  Bearer   abc123  ", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer ", ""},
		{"token only", "abc123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBearer(tt.header); got != tt.want {
				t.Errorf("extractBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	access, _, _, err := tokens.IssueAccess("sess-1", "user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	var gotUserID, gotSessionID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotSessionID, _ = GetSessionID(r.Context())
	})
	handler := RequireAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "user-1" || gotSessionID != "sess-1" {
		t.Errorf("identity = (%q, %q), want (user-1, sess-1)", gotUserID, gotSessionID)
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := RequireAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("next handler must not run without a token")
	}
}

func TestRequireAuth_RefreshTokenRejected(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	refresh, _, _, err := tokens.IssueRefresh("sess-1", "user-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := RequireAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for a refresh token on a protected route", rec.Code)
	}
}

func TestOptionalAuth_PassesThroughWithoutToken(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	var hadIdentity bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadIdentity = GetSessionID(r.Context())
	})
	handler := OptionalAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if hadIdentity {
		t.Error("no identity should be set without a token")
	}
}

func TestOptionalAuth_SetsIdentity(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("token provider: %v", err)
	}
	access, _, _, err := tokens.IssueAccess("sess-9", "user-9")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	var gotSessionID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID, _ = GetSessionID(r.Context())
	})
	handler := OptionalAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotSessionID != "sess-9" {
		t.Errorf("session id = %q, want sess-9", gotSessionID)
	}
}
