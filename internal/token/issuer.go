package token

import (
	"time"

	"github.com/google/uuid"
)

// Issuer mints access and refresh tokens for a subject. Every issued token
// carries a fresh random nonce, so two tokens minted in the same instant for
// the same subject still differ.
type Issuer struct {
	secret     []byte
	algorithm  string
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time
}

// NewIssuer constructs an Issuer over explicit secret material.
func NewIssuer(secret []byte, algorithm string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     secret,
		algorithm:  algorithm,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL reports the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess mints a signed access token for subject.
func (i *Issuer) IssueAccess(subject string) (string, error) {
	return i.issue(subject, KindAccess, i.accessTTL)
}

// IssueRefresh mints a signed refresh token for subject.
func (i *Issuer) IssueRefresh(subject string) (string, error) {
	return i.issue(subject, KindRefresh, i.refreshTTL)
}

func (i *Issuer) issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := i.now().UTC().Truncate(time.Second)
	claims := Claims{
		Subject:   subject,
		Kind:      kind,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Nonce:     uuid.NewString(),
	}
	return Encode(claims, i.secret, i.algorithm)
}

func (i *Issuer) now() time.Time {
	if i.Clock != nil {
		return i.Clock()
	}
	return time.Now()
}
