package middleware

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNoCredentials means the request carried no Authorization header.
	ErrNoCredentials = errors.New("missing authorization header")
	// ErrMalformedCredentials means the Authorization header is not a bearer token.
	ErrMalformedCredentials = errors.New("invalid authorization header format")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrNoCredentials
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMalformedCredentials
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMalformedCredentials
	}
	return token, nil
}
