package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSessionMintsIDWhenAbsent(t *testing.T) {
	t.Parallel()

	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if captured == "" {
		t.Fatal("expected a session id in context")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("expected a uuid session id, got %q", captured)
	}
	if rec.Header().Get("X-Session-Id") != captured {
		t.Fatal("minted session id must be echoed in the response header")
	}
}

func TestSessionReusesProvidedID(t *testing.T) {
	t.Parallel()

	var captured string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Session-Id", "sess-known")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "sess-known" {
		t.Fatalf("expected provided session id reused, got %q", captured)
	}
	if rec.Header().Get("X-Session-Id") != "sess-known" {
		t.Fatal("provided session id must be echoed back")
	}
}

func TestSessionIDFromContextDefaultsEmpty(t *testing.T) {
	t.Parallel()

	if id := SessionIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Fatalf("expected empty session id, got %q", id)
	}
}
