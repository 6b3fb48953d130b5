// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// subjectKey is the context key for the authenticated subject.
const subjectKey contextKey = "subject"

// TokenVerifier validates bearer tokens. Token issuance and storage are
// owned by the external auth service; this package only consumes it.
type TokenVerifier interface {
	// Verify returns the token's subject, or an error when the token
	// is invalid or expired.
	Verify(token string) (string, error)
}

// RequireAuth rejects requests that do not carry a valid bearer token.
// The verified subject is stored in the request context for handlers.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromCtx returns the authenticated subject, or "" when the
// request was not authenticated.
func SubjectFromCtx(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"unauthorized"}`))
}
