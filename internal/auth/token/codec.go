// Package token owns signing-key derivation and the HS256 sign/verify
// protocol shared by every service. The codec is pure: a given secret
// string always derives the same key bytes, so independently deployed
// services accept each other's tokens.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

// minKeyBytes is the HS256 floor: 256 bits.
const minKeyBytes = 32

// Claims is the token payload. Role rides alongside the registered claims;
// verifiers treat it as a free-form string and map it to an authority tag
// at the edge.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// DeriveKey turns the configured secret string into HS256 key material.
// The secret is first tried as base64; a successful decode of at least 32
// bytes is used directly. Otherwise the raw UTF-8 bytes are used when long
// enough, and short secrets are stretched through HKDF-SHA256 to a full
// 32-byte key. Only an empty secret fails.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}

	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil && len(decoded) >= minKeyBytes {
		return decoded, nil
	}

	raw := []byte(secret)
	if len(raw) >= minKeyBytes {
		return raw, nil
	}

	key := make([]byte, minKeyBytes)
	kdf := hkdf.New(sha256.New, raw, nil, []byte("cropdeal-hs256"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("token: stretch secret: %w", err)
	}
	return key, nil
}

// Sign serializes the claims and returns the compact signed token.
func Sign(claims *Claims, key []byte) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks structure and signature and returns the claims. Expiry is
// deliberately NOT enforced here: claims of an expired but authentic token
// are still returned, and the caller decides via Expired/IsExpired. This
// keeps the validate endpoint able to distinguish "forged" from "stale".
func Verify(raw string, key []byte) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, domain.ErrMalformedToken
		}
		return nil, domain.ErrSignatureInvalid
	}
	return claims, nil
}
