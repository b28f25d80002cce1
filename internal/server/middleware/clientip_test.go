package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "203.0.113.9:51234", nil, "203.0.113.9"},
		{"x-forwarded-for", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7"}, "198.51.100.7"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"}, "198.51.100.7"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "192.0.2.44"}, "192.0.2.44"},
		{"xff wins over real-ip", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7", "X-Real-IP": "192.0.2.44"}, "198.51.100.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIPFromRequest(req); got != tt.want {
				t.Errorf("clientIPFromRequest = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveClientIP_StoresInContext(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	ResolveClientIP(next).ServeHTTP(httptest.NewRecorder(), req)

	if got != "203.0.113.9" {
		t.Errorf("ClientIP = %q, want 203.0.113.9", got)
	}
}

func TestClientIP_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ClientIP(req.Context()); got != "unknown" {
		t.Errorf("ClientIP = %q, want unknown", got)
	}
}
