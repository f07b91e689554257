package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

// makeToken builds an unsigned JWT with the given claims.
func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return header + "." + body + "."
}

func TestParseClaims_ReadsIdentity(t *testing.T) {
	token := makeToken(t, map[string]interface{}{
		"sub":      "user-123",
		"username": "gary",
		"email":    "gary@example.com",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	c, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c.Sub != "user-123" || c.Username != "gary" || c.Email != "gary@example.com" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if c.Expired() {
		t.Fatal("token should not be expired")
	}
}

func TestParseClaims_EmptyToken(t *testing.T) {
	if _, err := ParseClaims(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestParseClaims_Garbage(t *testing.T) {
	if _, err := ParseClaims("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestParseClaims_MissingSubject(t *testing.T) {
	token := makeToken(t, map[string]interface{}{"username": "gary"})
	if _, err := ParseClaims(token); err == nil {
		t.Fatal("expected error for token without subject")
	}
}

func TestExpired(t *testing.T) {
	past := makeToken(t, map[string]interface{}{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	c, err := ParseClaims(past)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !c.Expired() {
		t.Fatal("expected expired token")
	}

	noExp := makeToken(t, map[string]interface{}{"sub": "user-123"})
	c, err = ParseClaims(noExp)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c.Expired() {
		t.Fatal("token without exp must be treated as unexpired")
	}
}

func TestDisplayName_Preference(t *testing.T) {
	c := &Claims{Sub: "user-123", Username: "gary", Email: "gary@example.com"}
	if got := c.DisplayName(); got != "gary" {
		t.Fatalf("expected username, got %q", got)
	}
	c.Username = ""
	if got := c.DisplayName(); got != "gary@example.com" {
		t.Fatalf("expected email, got %q", got)
	}
	c.Email = ""
	if got := c.DisplayName(); got != "user-123" {
		t.Fatalf("expected subject, got %q", got)
	}
}
