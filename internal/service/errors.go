package service

import "errors"

// ErrExternalAuth wraps any failure from the external identity provider
// during sign-in. The provider detail is attached via %w.
var ErrExternalAuth = errors.New("service: external authentication failed")
