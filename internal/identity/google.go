// Package identity verifies ID tokens minted by the external identity
// provider. It is the only place clock-skew tolerance applies; the service's
// own tokens are checked strictly.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

// Claim is the verified identity extracted from an external ID token.
type Claim struct {
	Email   string
	Name    string
	Picture string
}

// Verifier validates an external ID token and yields the identity claim.
type Verifier interface {
	Verify(ctx context.Context, rawIDToken string) (Claim, error)
}

// GoogleVerifier validates Google-issued ID tokens against the configured
// OAuth client ID.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
	skew     time.Duration

	// Clock overrides the wall clock; nil means time.Now.
	Clock func() time.Time
}

var _ Verifier = (*GoogleVerifier)(nil)

// NewGoogleVerifier discovers Google's OIDC configuration and builds a
// verifier. skew absorbs clock drift between Google's signing hosts and this
// process in both directions.
func NewGoogleVerifier(ctx context.Context, clientID string, skew time.Duration) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc provider: %w", err)
	}

	// Expiry is checked manually below so the skew window can apply to it.
	verifier := provider.Verifier(&oidc.Config{
		ClientID:        clientID,
		SkipExpiryCheck: true,
	})

	return &GoogleVerifier{verifier: verifier, skew: skew}, nil
}

// Verify checks the token's signature, issuer, and audience, then its expiry
// and issue time within the skew window, and extracts the profile claims.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (Claim, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Claim{}, fmt.Errorf("verify google id token: %w", err)
	}

	now := v.now()
	if !idToken.Expiry.IsZero() && now.After(idToken.Expiry.Add(v.skew)) {
		return Claim{}, fmt.Errorf("google id token expired at %s", idToken.Expiry.Format(time.RFC3339))
	}
	if !idToken.IssuedAt.IsZero() && idToken.IssuedAt.After(now.Add(v.skew)) {
		return Claim{}, fmt.Errorf("google id token issued in the future at %s", idToken.IssuedAt.Format(time.RFC3339))
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Claim{}, fmt.Errorf("extract google claims: %w", err)
	}
	if claims.Email == "" {
		return Claim{}, fmt.Errorf("google id token missing email claim")
	}

	return Claim{Email: claims.Email, Name: claims.Name, Picture: claims.Picture}, nil
}

func (v *GoogleVerifier) now() time.Time {
	if v.Clock != nil {
		return v.Clock()
	}
	return time.Now()
}
