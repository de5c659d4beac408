package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const defaultName = "Player"

// ErrNotConfigured is returned when no identity provider base URL is set.
var ErrNotConfigured = errors.New("auth base URL is not set")

// Validator checks JWTs against the JWKS published by an identity provider.
// The key set is fetched once and refreshed in the background by keyfunc.
type Validator struct {
	baseURL string
	methods []string

	mu   sync.Mutex
	jwks keyfunc.Keyfunc
}

// NewValidator returns a validator for tokens issued by baseURL. A nil
// *Validator (from an empty baseURL) rejects every token.
func NewValidator(baseURL string) *Validator {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Validator{baseURL: baseURL, methods: []string{"EdDSA", "RS256", "ES256"}}
}

// Enabled reports whether tokens are checked at all.
func (v *Validator) Enabled() bool {
	return v != nil
}

func (v *Validator) keyfunc() (keyfunc.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}
	jwks, err := keyfunc.NewDefault([]string{v.baseURL + "/.well-known/jwks.json"})
	if err != nil {
		return nil, err
	}
	v.jwks = jwks
	return jwks, nil
}

// Validate verifies the token signature and issuer and returns its claims.
func (v *Validator) Validate(tokenString string) (jwt.MapClaims, error) {
	if v == nil {
		return nil, ErrNotConfigured
	}
	issuer, err := expectedIssuer(v.baseURL)
	if err != nil {
		return nil, err
	}
	jwks, err := v.keyfunc()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, jwks.Keyfunc,
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods(v.methods))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func expectedIssuer(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL: %q", baseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return defaultName
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
