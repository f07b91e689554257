// Package auth reads identity claims out of the Logto access token. The
// claims are display-only on this side; the server is the one doing
// signature verification, so the token is parsed unverified here.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims are the identity claims the dashboard cares about.
type Claims struct {
	Sub      string
	Username string
	Email    string
	ExpireAt time.Time
}

// ParseClaims decodes claims from a JWT without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("no token configured (set SCROLLR_TOKEN or token in ~/.scrollr/config.yaml)")
	}

	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims format")
	}

	c := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		c.Sub = sub
	}
	if v, ok := mc["username"].(string); ok {
		c.Username = v
	}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpireAt = exp.Time
	}

	if c.Sub == "" {
		return nil, errors.New("token has no subject claim")
	}
	return c, nil
}

// Expired reports whether the token's expiry has passed. Tokens without an
// exp claim are treated as unexpired.
func (c *Claims) Expired() bool {
	return !c.ExpireAt.IsZero() && time.Now().After(c.ExpireAt)
}

// DisplayName returns the best available human-readable identity.
func (c *Claims) DisplayName() string {
	if c.Username != "" {
		return c.Username
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Sub
}
