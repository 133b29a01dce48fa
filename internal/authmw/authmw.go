// Package authmw provides bearer token authentication for the admin
// config endpoints.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireToken returns middleware that validates the Authorization header
// against the expected bearer token using constant-time comparison. An
// empty expected token disables enforcement entirely, which keeps local
// development friction-free.
func RequireToken(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(strings.TrimPrefix(auth, "Bearer "))

			if subtle.ConstantTimeCompare(got, expected) != 1 {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
