package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/mirtitov/library-catalog/internal/api/middlewares"
)

func TestResponseTime_StampsHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := mw.ResponseTimeMiddleware(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	rt := rec.Header().Get("X-Response-Time")
	if rt == "" {
		t.Fatal("expected X-Response-Time header")
	}
	if _, err := time.ParseDuration(rt); err != nil {
		t.Fatalf("X-Response-Time %q is not a duration: %v", rt, err)
	}
}

func TestResponseTime_StampsOnBareWrite(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	wrapped := mw.ResponseTimeMiddleware(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Header().Get("X-Response-Time") == "" {
		t.Error("expected X-Response-Time header when handler only calls Write")
	}
}
