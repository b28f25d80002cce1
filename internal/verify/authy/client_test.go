package authy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"authgate/internal/verify"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("api-key", "")
	if c.BaseURL != "https://api.authy.com" {
		t.Errorf("BaseURL = %q, want default", c.BaseURL)
	}
	if c.HTTPClient == nil {
		t.Fatal("HTTPClient should be set")
	}
	if c.HTTPClient.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.HTTPClient.Timeout, defaultTimeout)
	}
}

func TestStartCheck_SendsForm(t *testing.T) {
	var gotPath, gotKey, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Authy-API-Key")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotBody = r.PostForm.Encode()
		w.Write([]byte(`{"success":true,"message":"Text message sent"}`))
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL)
	if err := c.StartCheck(context.Background(), "123456789", 48); err != nil {
		t.Fatalf("StartCheck: %v", err)
	}
	if gotPath != "/protected/json/phones/verification/start" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("X-Authy-API-Key = %q", gotKey)
	}
	for _, want := range []string{"phone_number=123456789", "country_code=48", "via=sms"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body %q missing %q", gotBody, want)
		}
	}
}

func TestVerifyCheck_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("verification_code"); got != "0000" {
			t.Errorf("verification_code = %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"errors":{"message":"Verification code is incorrect"}}`))
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL)
	err := c.VerifyCheck(context.Background(), "123456789", 48, "0000")
	if err == nil {
		t.Fatal("expected error for rejected check")
	}
	var pe *verify.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *verify.ProviderError", err)
	}
	if pe.Reason != "Verification code is incorrect" {
		t.Errorf("Reason = %q", pe.Reason)
	}
}

func TestRegisterPrincipal_ReturnsID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/protected/json/users/new" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("user[email]"); got != "bob@example.com" {
			t.Errorf("user[email] = %q", got)
		}
		w.Write([]byte(`{"success":true,"user":{"id":2001}}`))
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL)
	id, err := c.RegisterPrincipal(context.Background(), "bob@example.com", "123456789", 48, true)
	if err != nil {
		t.Fatalf("RegisterPrincipal: %v", err)
	}
	if id != "2001" {
		t.Errorf("id = %q, want %q", id, "2001")
	}
}

func TestRegisterPrincipal_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL)
	if _, err := c.RegisterPrincipal(context.Background(), "bob@example.com", "123456789", 48, true); err == nil {
		t.Fatal("expected error when response has no user id")
	}
}

func TestRequestStepUp_ForceFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/protected/json/sms/2001" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("force"); got != "true" {
			t.Errorf("force = %q", got)
		}
		w.Write([]byte(`{"success":true,"message":"SMS token was sent"}`))
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL)
	if err := c.RequestStepUp(context.Background(), "2001", true); err != nil {
		t.Fatalf("RequestStepUp: %v", err)
	}
}

func TestVerifyStepUp_PathLayout(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true,"message":"Token is valid"}`))
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL)
	if err := c.VerifyStepUp(context.Background(), "2001", "1234567"); err != nil {
		t.Fatalf("VerifyStepUp: %v", err)
	}
	if gotPath != "/protected/json/verify/1234567/2001" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestDo_MissingAPIKey(t *testing.T) {
	c := NewClient("", "http://example.invalid")
	if err := c.StartCheck(context.Background(), "123456789", 48); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
