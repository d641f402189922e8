package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/mirtitov/library-catalog/internal/api/middlewares"
)

func TestSecurityHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.SecurityHeaders(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Content-Security-Policy", "default-src 'none'"},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.expected {
			t.Errorf("header %s: expected %q, got %q", tt.header, tt.expected, got)
		}
	}

	if rec.Header().Get("Cache-Control") == "" {
		t.Error("expected Cache-Control header")
	}
	// Plain HTTP must not advertise HSTS.
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("did not expect HSTS over plain HTTP")
	}
}

func TestSecurityHeaders_HSTSOverTLS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.SecurityHeaders(handler)

	// httptest.NewRequest fills in a dummy TLS state for https targets.
	req := httptest.NewRequest("GET", "https://example.com/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS header over TLS")
	}
}
