package token

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformed indicates the transport string could not be parsed into
	// the expected claim shape.
	ErrMalformed = errors.New("token: malformed")
	// ErrSignatureInvalid indicates the signature does not verify against
	// the configured secret.
	ErrSignatureInvalid = errors.New("token: signature invalid")
	// ErrMissingExpiry indicates the decoded claims carry no expiration.
	ErrMissingExpiry = errors.New("token: missing expiration time")
	// ErrMissingSubject indicates the decoded claims carry no subject.
	ErrMissingSubject = errors.New("token: missing subject")
)

// WrongTypeError reports a kind mismatch between the token presented and the
// kind the caller expected.
type WrongTypeError struct {
	Expected Kind
	Actual   Kind
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("token: wrong token type: expected %s, got %s", e.Expected, e.Actual)
}

// ExpiredError reports an expired token along with both timestamps for
// diagnosability.
type ExpiredError struct {
	Now       time.Time
	ExpiresAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token: expired at %s (now %s)", e.ExpiresAt.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}
