// Package auth verifies caller identity tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moviereviews/backend/services/review/internal/domain"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// IdentitySource turns a bearer token into a verified caller identity.
type IdentitySource interface {
	Verify(ctx context.Context, token string) (domain.CallerIdentity, error)
}

// Claims are the token claims the service reads. The identity provider puts
// the user's email in "email" and its login name in "cognito:username".
type Claims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"cognito:username,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HMAC-signed JWTs.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

var _ IdentitySource = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier for tokens signed with secret. When issuer
// is non-empty the "iss" claim must match it, and when audience is non-empty
// the "aud" claim must contain it.
func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}
}

// Verify validates the token signature and expiry and returns the caller.
// The caller id is the email claim, falling back to the username and then
// the subject.
func (v *JWTVerifier) Verify(_ context.Context, token string) (domain.CallerIdentity, error) {
	var claims Claims
	parsed, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domain.CallerIdentity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.CallerIdentity{}, ErrInvalidToken
	}

	id := claims.Email
	if id == "" {
		id = claims.Username
	}
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return domain.CallerIdentity{}, fmt.Errorf("%w: no identity claim", ErrInvalidToken)
	}

	return domain.CallerIdentity{ID: id, Email: claims.Email}, nil
}
