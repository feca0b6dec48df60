package token

import (
	"errors"
	"testing"
	"time"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DeriveKey("unit-test-secret-string-long-enough-for-hs256")
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	return key
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	key := testKey(t)
	issuer := NewIssuer(key, 0)

	signed, err := issuer.Issue("alice", domain.RoleFarmer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := Verify(signed, key)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.Role != "FARMER" {
		t.Fatalf("expected role FARMER, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}
	if issuer.IsExpired(claims) {
		t.Fatalf("fresh token must not be expired")
	}
}

func TestExpiry_StrictBoundary(t *testing.T) {
	key := testKey(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	clock := issued
	issuer := NewIssuer(key, 0).WithClock(func() time.Time { return clock })

	signed, err := issuer.Issue("bob", domain.RoleDealer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := Verify(signed, key)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Exactly at issuedAt + 10h the token is still good.
	clock = issued.Add(TTL)
	if issuer.IsExpired(claims) {
		t.Fatalf("token must be valid at the expiry instant")
	}

	// One second past, it is not.
	clock = issued.Add(TTL + time.Second)
	if !issuer.IsExpired(claims) {
		t.Fatalf("token must be expired strictly after issuedAt + TTL")
	}
}

func TestVerify_ReturnsClaimsForExpiredToken(t *testing.T) {
	key := testKey(t)
	past := time.Now().Add(-24 * time.Hour)
	issuer := NewIssuer(key, 0).WithClock(func() time.Time { return past })

	signed, err := issuer.Issue("carol", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The codec layer hands back claims even when stale; expiry is the
	// caller's check.
	claims, err := Verify(signed, key)
	if err != nil {
		t.Fatalf("verify of expired token: %v", err)
	}
	if !Expired(claims, time.Now()) {
		t.Fatalf("expected claims to report expired")
	}
}

func TestExtractUsername(t *testing.T) {
	key := testKey(t)
	issuer := NewIssuer(key, 0)

	signed, err := issuer.Issue("dave", domain.RoleFarmer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	username, err := issuer.ExtractUsername(signed)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if username != "dave" {
		t.Fatalf("expected dave, got %q", username)
	}

	if _, err := issuer.ExtractUsername("abc"); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}
