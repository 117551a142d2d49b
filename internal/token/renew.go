package token

import (
	"time"
)

// RenewalPolicy implements rolling refresh token renewal: a refresh token is
// reused until less than half of its configured lifetime remains, then a new
// one is minted. This bounds how long a leaked refresh token stays usable
// beyond first legitimate use to one half-lifetime, without rotating on every
// request.
type RenewalPolicy struct {
	issuer   *Issuer
	verifier *Verifier

	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time
}

// NewRenewalPolicy wires the policy over an issuer and verifier sharing the
// same secret material.
func NewRenewalPolicy(issuer *Issuer, verifier *Verifier) *RenewalPolicy {
	return &RenewalPolicy{issuer: issuer, verifier: verifier}
}

// Renew verifies raw as a refresh token and decides whether to rotate it.
// It returns the subject, the refresh token to hand back to the client
// (rotated or the original), and whether rotation happened.
func (p *RenewalPolicy) Renew(raw string) (subject, refresh string, rotated bool, err error) {
	subject, expiresAt, err := p.verifier.Verify(raw, KindRefresh)
	if err != nil {
		return "", "", false, err
	}

	remaining := expiresAt.Sub(p.now().UTC())
	if remaining < p.issuer.RefreshTTL()/2 {
		next, err := p.issuer.IssueRefresh(subject)
		if err != nil {
			return "", "", false, err
		}
		return subject, next, true, nil
	}

	return subject, raw, false, nil
}

func (p *RenewalPolicy) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}
