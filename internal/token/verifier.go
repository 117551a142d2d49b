package token

import (
	"time"
)

// Verifier validates transport strings against structural, cryptographic,
// type, and temporal rules.
type Verifier struct {
	secret    []byte
	algorithm string

	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time
}

// NewVerifier constructs a Verifier over explicit secret material.
func NewVerifier(secret []byte, algorithm string) *Verifier {
	return &Verifier{secret: secret, algorithm: algorithm}
}

// Verify checks raw and returns its subject and expiry. Checks run in a fixed
// order, each short-circuiting on failure: decode, kind match, expiry
// present, expiry in the future, subject present. A token is not valid at the
// exact expiry instant.
func (v *Verifier) Verify(raw string, expected Kind) (string, time.Time, error) {
	claims, err := Decode(raw, v.secret, v.algorithm)
	if err != nil {
		return "", time.Time{}, err
	}

	if claims.Kind != expected {
		return "", time.Time{}, &WrongTypeError{Expected: expected, Actual: claims.Kind}
	}

	if claims.ExpiresAt.IsZero() {
		return "", time.Time{}, ErrMissingExpiry
	}

	now := v.now().UTC()
	if !now.Before(claims.ExpiresAt) {
		return "", time.Time{}, &ExpiredError{Now: now, ExpiresAt: claims.ExpiresAt}
	}

	if claims.Subject == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	return claims.Subject, claims.ExpiresAt, nil
}

func (v *Verifier) now() time.Time {
	if v.Clock != nil {
		return v.Clock()
	}
	return time.Now()
}
