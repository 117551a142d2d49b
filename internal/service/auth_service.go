package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
	"github.com/Xiaobonor/Migo-Backend/internal/identity"
	"github.com/Xiaobonor/Migo-Backend/internal/repository"
	"github.com/Xiaobonor/Migo-Backend/internal/token"
)

// TokenResponse is the sign-in and refresh response returned to clients.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthService orchestrates sign-in, token refresh, and current-user lookup.
// It is stateless: every operation is a function of its token input, the
// clock, and the user store.
type AuthService struct {
	users    repository.UserRepository
	external identity.Verifier
	issuer   *token.Issuer
	verifier *token.Verifier
	renewal  *token.RenewalPolicy
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, external identity.Verifier, issuer *token.Issuer, verifier *token.Verifier, renewal *token.RenewalPolicy, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		external: external,
		issuer:   issuer,
		verifier: verifier,
		renewal:  renewal,
		logger:   logger,
		tracer:   otel.Tracer("github.com/Xiaobonor/Migo-Backend/internal/service"),
	}
}

// SignIn verifies an external Google ID token, upserts the user, and issues a
// fresh access/refresh token pair.
func (s *AuthService) SignIn(ctx context.Context, idToken string) (*TokenResponse, error) {
	ctx, span := s.startSpan(ctx, "AuthService.SignIn")
	defer span.End()

	claim, err := s.external.Verify(ctx, idToken)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrExternalAuth, err)
	}

	name := claim.Name
	if name == "" {
		name = strings.SplitN(claim.Email, "@", 2)[0]
	}

	user, err := s.users.Upsert(ctx, domain.User{
		Email:   claim.Email,
		Name:    name,
		Picture: claim.Picture,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	resp, err := s.issuePair(user.Email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.audit("signin.success", "email", user.Email, "user_id", user.ID.Hex())
	return resp, nil
}

// Refresh verifies the presented refresh token, applies the rolling renewal
// policy, and issues a fresh access token. Verification failures propagate
// unchanged so callers can branch on the token error kinds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	_, span := s.startSpan(ctx, "AuthService.Refresh")
	defer span.End()

	subject, refresh, rotated, err := s.renewal.Renew(refreshToken)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	access, err := s.issuer.IssueAccess(subject)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	if rotated {
		s.audit("refresh.rotated", "email", subject)
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.issuer.AccessTTL().Seconds()),
	}, nil
}

// CurrentUser resolves the user behind an access token and touches their
// last-active timestamp. Returns repository.ErrNotFound when the subject has
// no matching record; the store is external and may have been mutated
// independently of the tokens this service issued.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AuthService.CurrentUser")
	defer span.End()

	subject, _, err := s.verifier.Verify(accessToken, token.KindAccess)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	return user, nil
}

// VerifyAccess checks an access token and returns its subject. Used by the
// HTTP auth middleware.
func (s *AuthService) VerifyAccess(accessToken string) (string, error) {
	subject, _, err := s.verifier.Verify(accessToken, token.KindAccess)
	return subject, err
}

func (s *AuthService) issuePair(subject string) (*TokenResponse, error) {
	access, err := s.issuer.IssueAccess(subject)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefresh(subject)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.issuer.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
