package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/rs/zerolog"
)

func requestWithScopes(scopes ...string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	claims := &validator.ValidatedClaims{
		CustomClaims: &Claims{Scope: ScopeList(scopes)},
	}
	return r.WithContext(context.WithValue(r.Context(), jwtmiddleware.ContextKey{}, claims))
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body.Status, body.Message
}

func TestRequireScopePasses(t *testing.T) {
	called := false
	h := RequireScope("write:todos", zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithScopes("read:todos", "write:todos"))
	if !called {
		t.Fatal("handler was not reached with the required scope present")
	}
}

func TestRequireScopeDenies(t *testing.T) {
	called := false
	h := RequireScope("write:todos", zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithScopes("read:todos"))
	if called {
		t.Fatal("handler must not run without the required scope")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if status, msg := decodeStatus(t, rec); status != http.StatusForbidden || msg != "insufficient scope" {
		t.Fatalf("unexpected body: %d %q", status, msg)
	}
}

func TestRequireScopeWithoutClaims(t *testing.T) {
	called := false
	h := RequireScope("write:todos", zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if called {
		t.Fatal("handler must not run without validated claims")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestScopeListDecodesArray(t *testing.T) {
	var c Claims
	if err := json.Unmarshal([]byte(`{"scope":["read:todos","write:todos"]}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !c.HasScope("write:todos") {
		t.Fatal("array scope claim not decoded")
	}
}

func TestScopeListDecodesSpaceDelimited(t *testing.T) {
	var c Claims
	if err := json.Unmarshal([]byte(`{"scope":"read:todos write:todos"}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !c.HasScope("write:todos") || !c.HasScope("read:todos") {
		t.Fatal("space-delimited scope claim not decoded")
	}
}

func TestScopeListAbsent(t *testing.T) {
	var c Claims
	if err := json.Unmarshal([]byte(`{}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.HasScope("write:todos") {
		t.Fatal("absent scope claim must grant nothing")
	}
}
