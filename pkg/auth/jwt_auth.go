package auth

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator is the minimal interface handlers depend on.
type Authenticator interface {
	// Authenticate returns the token claims and true when the request is authenticated.
	// Claims is a plain map so handlers don't need the jwt dependency.
	Authenticate(r *http.Request) (claims map[string]interface{}, ok bool)
}

// NewJWT returns an Authenticator that validates HS256 tokens signed with secret.
// Empty issuer or audience disables that check.
func NewJWT(secret, issuer, audience string) Authenticator {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &jwtAuth{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

type jwtAuth struct {
	secret []byte
	parser *jwt.Parser
}

func (a *jwtAuth) Authenticate(r *http.Request) (map[string]interface{}, bool) {
	tokenString, ok := bearerToken(r)
	if !ok {
		return nil, false
	}
	if len(a.secret) == 0 {
		log.Printf("jwt auth: no secret configured")
		return nil, false
	}

	token, err := a.parser.ParseWithClaims(tokenString, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		log.Printf("jwt auth: parse error: %v", err)
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, false
	}

	out := make(map[string]interface{}, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out, true
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// IssueToken signs an HS256 token for subject valid for ttl.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("issue token: secret missing")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return s, nil
}
