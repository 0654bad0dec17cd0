package auth

import (
	"net/http"
	"testing"
	"time"
)

func TestTokenIssuer_RoundTripThroughMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("clinic", testSigningKey, time.Hour)
	token, err := issuer.Issue(Subject{UserID: "u-1", TenantID: "clinic001", CompanyID: "c-1", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := runMiddleware(t, JWTConfig{SigningKey: testSigningKey, Issuer: "clinic"}, "Bearer "+token)
	if err != nil {
		t.Fatalf("issued token rejected: %v", err)
	}
	ctx := c.Request().Context()
	if UserIDFromContext(ctx) != "u-1" || RoleFromContext(ctx) != RoleAdmin {
		t.Errorf("unexpected identity in context")
	}
	jti, exp := TokenFromContext(ctx)
	if jti == "" {
		t.Error("expected a jti")
	}
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour+time.Minute {
		t.Errorf("expected ~1h expiry, got %s", d)
	}
}

func TestTokenIssuer_UniqueIDs(t *testing.T) {
	issuer := NewTokenIssuer("clinic", testSigningKey, time.Hour)
	sub := Subject{UserID: "u-1", TenantID: "clinic001"}
	a, _ := issuer.Issue(sub)
	b, _ := issuer.Issue(sub)
	if a == b {
		t.Error("expected distinct tokens for repeated logins")
	}
}

func TestTokenIssuer_RequiresSubject(t *testing.T) {
	issuer := NewTokenIssuer("clinic", testSigningKey, time.Hour)
	if _, err := issuer.Issue(Subject{TenantID: "clinic001"}); err == nil {
		t.Error("expected error without user id")
	}
	if _, err := issuer.Issue(Subject{UserID: "u-1"}); err == nil {
		t.Error("expected error without tenant")
	}
}

func TestTokenIssuer_ExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("clinic", testSigningKey, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue(Subject{UserID: "u-1", TenantID: "clinic001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = runMiddleware(t, JWTConfig{SigningKey: testSigningKey}, "Bearer "+token)
	assertStatus(t, err, http.StatusUnauthorized)
}
