package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

// TTL is the fixed token lifetime. There is no refresh flow and no
// revocation: a token stays valid until expiry regardless of later account
// state changes.
const TTL = 10 * time.Hour

// Issuer builds claim sets for authenticated identities and signs them.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer returns an Issuer signing with key. A non-positive ttl falls
// back to the standard TTL.
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = TTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// WithClock overrides the issuer's time source. Intended for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue signs a token for the given identity with iat = now and
// exp = now + ttl.
func (i *Issuer) Issue(username string, role domain.Role) (string, error) {
	now := i.now().UTC()
	claims := &Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return Sign(claims, i.key)
}

// IsExpired reports whether the claims' expiry lies strictly in the past.
func (i *Issuer) IsExpired(claims *Claims) bool {
	return Expired(claims, i.now())
}

// Expired is the shared expiry rule: true iff exp < now. A token evaluated
// exactly at its expiry instant is still accepted.
func Expired(claims *Claims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(now)
}

// ExtractUsername verifies the token and returns its subject.
func (i *Issuer) ExtractUsername(raw string) (string, error) {
	claims, err := Verify(raw, i.key)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
