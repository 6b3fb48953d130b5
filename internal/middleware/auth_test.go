package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// verifierFunc adapts a function to the TokenVerifier interface.
type verifierFunc func(token string) (string, error)

func (f verifierFunc) Verify(token string) (string, error) { return f(token) }

func TestRequireAuth(t *testing.T) {
	verifier := verifierFunc(func(token string) (string, error) {
		if token == "good-token" {
			return "admin", nil
		}
		return "", errors.New("invalid token")
	})

	var gotSubject string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(verifier)(inner)

	t.Run("valid token passes and exposes subject", func(t *testing.T) {
		gotSubject = ""
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if gotSubject != "admin" {
			t.Errorf("subject: got %q, want %q", gotSubject, "admin")
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("wrong scheme is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})
}

func TestSubjectFromCtxUnauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SubjectFromCtx(req.Context()); got != "" {
		t.Errorf("got %q, want empty subject", got)
	}
}
