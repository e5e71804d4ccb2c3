// Package auth verifies the exporter's identity token and carries the
// resulting identity through the request context.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrMissingToken = errors.New("missing identity token")
	ErrInvalidToken = errors.New("invalid identity token")
	ErrExpiredToken = errors.New("identity token has expired")
	ErrMissingKey   = errors.New("no signing secret or public key configured")
)

// Claims are the identity claims issued by the customer identity service
type Claims struct {
	jwt.RegisteredClaims
	ContactID             string `json:"contactId"`
	Email                 string `json:"email"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	CurrentRelationshipID string `json:"currentRelationshipId,omitempty"`
}

// Identity is a verified exporter plus the raw token, which is forwarded to
// the orchestration API
type Identity struct {
	Claims Claims
	Token  string
}

// Verifier checks identity tokens
type Verifier struct {
	method jwt.SigningMethod
	key    interface{}
	issuer string
}

// NewHMACVerifier verifies HS256 tokens signed with secret
func NewHMACVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingKey
	}
	return &Verifier{method: jwt.SigningMethodHS256, key: []byte(secret), issuer: issuer}, nil
}

// NewRSAVerifier verifies RS256 tokens against a PEM encoded public key
func NewRSAVerifier(publicKeyPEM, issuer string) (*Verifier, error) {
	if publicKeyPEM == "" {
		return nil, ErrMissingKey
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, err
	}
	return &Verifier{method: jwt.SigningMethodRS256, key: key, issuer: issuer}, nil
}

// NewVerifier prefers a public key over a shared secret
func NewVerifier(secret, publicKeyPEM, issuer string) (*Verifier, error) {
	if publicKeyPEM != "" {
		return NewRSAVerifier(publicKeyPEM, issuer)
	}
	return NewHMACVerifier(secret, issuer)
}

// Verify parses token and returns its claims
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		switch v.key.(type) {
		case *rsa.PublicKey:
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, ErrInvalidToken
			}
		default:
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
		}
		return v.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ContactID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromRequest reads the bearer token, falling back to the named cookie
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// DevelopmentIdentity is installed when authentication is disabled
func DevelopmentIdentity() Identity {
	return Identity{Claims: Claims{
		ContactID: "00000000-0000-0000-0000-000000000000",
		Email:     "exporter@example.com",
		FirstName: "Local",
		LastName:  "Exporter",
	}}
}

type identityKey struct{}

// WithIdentity stores the verified identity in ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
