// Package token implements the credential lifecycle: encoding and decoding
// signed claim sets, issuing access and refresh tokens, verifying them, and
// deciding when a refresh token must be rotated.
package token

import (
	"errors"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// Kind distinguishes access tokens from refresh tokens. The two are
// structurally identical; a token of one kind is never accepted where the
// other is required.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the decoded payload of a Migo token.
type Claims struct {
	Subject   string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
	Nonce     string
}

// kindClaim carries the token kind alongside the registered claims.
// The wire name matches the original mobile clients.
type kindClaim struct {
	Kind Kind `json:"type,omitempty"`
}

// Encode serializes and signs claims with the given symmetric secret.
// A zero ExpiresAt or IssuedAt is omitted from the payload.
func Encode(claims Claims, secret []byte, algorithm string) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.SignatureAlgorithm(algorithm), Key: secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}

	std := gojwt.Claims{
		Subject: claims.Subject,
		ID:      claims.Nonce,
	}
	if !claims.IssuedAt.IsZero() {
		std.IssuedAt = gojwt.NewNumericDate(claims.IssuedAt)
	}
	if !claims.ExpiresAt.IsZero() {
		std.Expiry = gojwt.NewNumericDate(claims.ExpiresAt)
	}

	return gojwt.Signed(signer).Claims(std).Claims(kindClaim{Kind: claims.Kind}).Serialize()
}

// Decode parses raw and verifies its signature against secret. It performs no
// temporal or kind validation; that is the Verifier's job.
func Decode(raw string, secret []byte, algorithm string) (Claims, error) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.SignatureAlgorithm(algorithm)})
	if err != nil {
		return Claims{}, ErrMalformed
	}

	var std gojwt.Claims
	var custom kindClaim
	if err := parsed.Claims(secret, &std, &custom); err != nil {
		if errors.Is(err, gojose.ErrCryptoFailure) {
			return Claims{}, ErrSignatureInvalid
		}
		return Claims{}, ErrMalformed
	}

	claims := Claims{
		Subject: std.Subject,
		Kind:    custom.Kind,
		Nonce:   std.ID,
	}
	if std.IssuedAt != nil {
		claims.IssuedAt = std.IssuedAt.Time().UTC()
	}
	if std.Expiry != nil {
		claims.ExpiresAt = std.Expiry.Time().UTC()
	}
	return claims, nil
}
