package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "authgate" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "authgate")
	}
	if cfg.JWTAudience != "authgate-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "authgate-api")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.JWTRefreshTTL != "168h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.VerifyAPIKey != "" {
		t.Errorf("VerifyAPIKey = %q, want empty", cfg.VerifyAPIKey)
	}
	if cfg.OTLPInsecure {
		t.Error("OTLPInsecure should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("VERIFY_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if cfg.VerifyAPIKey != "test-key" {
		t.Errorf("VerifyAPIKey = %q, want %q", cfg.VerifyAPIKey, "test-key")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject BCRYPT_COST outside 4-31")
	}
}

func TestAccessTTL(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"15m", 15 * time.Minute},
		{"1h", time.Hour},
		{"", 15 * time.Minute},
		{"bogus", 15 * time.Minute},
		{"-5m", 15 * time.Minute},
	}
	for _, tt := range tests {
		cfg := &Config{JWTAccessTTL: tt.raw}
		if got := cfg.AccessTTL(); got != tt.want {
			t.Errorf("AccessTTL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRefreshTTL(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"168h", 168 * time.Hour},
		{"24h", 24 * time.Hour},
		{"", 168 * time.Hour},
		{"bogus", 168 * time.Hour},
	}
	for _, tt := range tests {
		cfg := &Config{JWTRefreshTTL: tt.raw}
		if got := cfg.RefreshTTL(); got != tt.want {
			t.Errorf("RefreshTTL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
