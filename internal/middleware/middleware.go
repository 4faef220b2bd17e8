package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	authpkg "github.com/hwalton/wildtubs-configurator/pkg/auth"
)

type contextKey string

const (
	ctxSubject contextKey = "subject"
	ctxClaims  contextKey = "claims"
)

// AccessTokenCookie is read when no Authorization header is present.
const AccessTokenCookie = "access_token"

// RequireAuth validates the bearer token via auth and stores the claims in
// the request context. Unauthenticated requests get a 401 JSON body.
func RequireAuth(auth authpkg.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
					r.Header.Set("Authorization", "Bearer "+c.Value)
				}
			}
			claims, ok := auth.Authenticate(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			sub, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), ctxClaims, claims)
			ctx = context.WithValue(ctx, ctxSubject, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the authenticated subject, or "" outside RequireAuth.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(ctxSubject).(string)
	return s
}

// Claims returns the token claims stored by RequireAuth.
func Claims(ctx context.Context) map[string]interface{} {
	c, _ := ctx.Value(ctxClaims).(map[string]interface{})
	return c
}
