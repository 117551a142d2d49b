package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Xiaobonor/Migo-Backend/internal/domain"
	"github.com/Xiaobonor/Migo-Backend/internal/identity"
	"github.com/Xiaobonor/Migo-Backend/internal/repository"
	"github.com/Xiaobonor/Migo-Backend/internal/service"
	"github.com/Xiaobonor/Migo-Backend/internal/token"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testAlg    = "HS256"
)

func newTestAuthService(users repository.UserRepository, external identity.Verifier) (*service.AuthService, *token.Issuer, *token.Verifier) {
	issuer := token.NewIssuer(testSecret, testAlg, 15*time.Minute, time.Hour)
	verifier := token.NewVerifier(testSecret, testAlg)
	renewal := token.NewRenewalPolicy(issuer, verifier)
	svc := service.NewAuthService(users, external, issuer, verifier, renewal, zap.NewNop())
	return svc, issuer, verifier
}

func TestSignInIssuesTokenPair(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "user@example.com", Name: "Test User", Picture: "https://cdn/p.png"}}
	svc, _, _ := newTestAuthService(users, external)

	resp, err := svc.SignIn(ctx, "good-id-token")
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, int((15 * time.Minute).Seconds()), resp.ExpiresIn)

	stored, err := users.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "Test User", stored.Name)
	require.NotNil(t, stored.LastLogin)
	require.NotNil(t, stored.LastActive)

	// The issued tokens carry the right kinds.
	access, err := token.Decode(resp.AccessToken, testSecret, testAlg)
	require.NoError(t, err)
	require.Equal(t, token.KindAccess, access.Kind)
	require.Equal(t, "user@example.com", access.Subject)

	refresh, err := token.Decode(resp.RefreshToken, testSecret, testAlg)
	require.NoError(t, err)
	require.Equal(t, token.KindRefresh, refresh.Kind)
}

func TestSignInExternalFailure(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{err: fmt.Errorf("audience mismatch")}
	svc, _, _ := newTestAuthService(users, external)

	_, err := svc.SignIn(context.Background(), "bad-id-token")
	require.ErrorIs(t, err, service.ErrExternalAuth)
	require.Contains(t, err.Error(), "audience mismatch")
	require.Zero(t, users.count())
}

func TestSignInDefaultsNameFromEmail(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "nameless@example.com"}}
	svc, _, _ := newTestAuthService(users, external)

	_, err := svc.SignIn(context.Background(), "good-id-token")
	require.NoError(t, err)

	stored, err := users.GetByEmail(context.Background(), "nameless@example.com")
	require.NoError(t, err)
	require.Equal(t, "nameless", stored.Name)
}

func TestConcurrentSignInsCreateOneUser(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "raced@example.com", Name: "Raced"}}
	svc, _, _ := newTestAuthService(users, external)

	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			_, err := svc.SignIn(context.Background(), "good-id-token")
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, users.count())
}

func TestRefreshIssuesAccessForSameSubject(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "user@example.com", Name: "Test User"}}
	svc, _, _ := newTestAuthService(users, external)

	signin, err := svc.SignIn(context.Background(), "good-id-token")
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), signin.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	// Freshly issued refresh token has its full lifetime, so it is reused.
	require.Equal(t, signin.RefreshToken, resp.RefreshToken)

	access, err := token.Decode(resp.AccessToken, testSecret, testAlg)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", access.Subject)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "user@example.com"}}
	svc, _, _ := newTestAuthService(users, external)

	signin, err := svc.SignIn(context.Background(), "good-id-token")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), signin.AccessToken)
	var wrongType *token.WrongTypeError
	require.ErrorAs(t, err, &wrongType)
}

func TestRefreshRotatesNearExpiry(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "user@example.com"}}

	issued := time.Date(2024, 3, 21, 12, 0, 0, 0, time.UTC)
	issuer := token.NewIssuer(testSecret, testAlg, 15*time.Minute, time.Hour)
	issuer.Clock = func() time.Time { return issued }
	verifier := token.NewVerifier(testSecret, testAlg)
	renewal := token.NewRenewalPolicy(issuer, verifier)
	svc := service.NewAuthService(users, external, issuer, verifier, renewal, zap.NewNop())

	signin, err := svc.SignIn(context.Background(), "good-id-token")
	require.NoError(t, err)

	// 35 minutes later less than half the refresh lifetime remains.
	at := issued.Add(35 * time.Minute)
	verifier.Clock = func() time.Time { return at }
	renewal.Clock = func() time.Time { return at }
	issuer.Clock = func() time.Time { return at }

	resp, err := svc.Refresh(context.Background(), signin.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, signin.RefreshToken, resp.RefreshToken)
}

func TestCurrentUserFlow(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "user@example.com", Name: "Test User"}}
	svc, _, verifier := newTestAuthService(users, external)

	signin, err := svc.SignIn(ctx, "good-id-token")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, signin.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", user.Email)

	// After the access TTL elapses the same token is rejected as expired.
	verifier.Clock = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = svc.CurrentUser(ctx, signin.AccessToken)
	var expired *token.ExpiredError
	require.ErrorAs(t, err, &expired)
}

func TestCurrentUserMissingRecord(t *testing.T) {
	users := newMemoryUserRepo()
	external := &fakeIdentityVerifier{claim: identity.Claim{Email: "user@example.com"}}
	svc, issuer, _ := newTestAuthService(users, external)

	// Token for a subject the store has never seen.
	access, err := issuer.IssueAccess("ghost@example.com")
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), access)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

type fakeIdentityVerifier struct {
	claim identity.Claim
	err   error
}

func (f *fakeIdentityVerifier) Verify(ctx context.Context, rawIDToken string) (identity.Claim, error) {
	if f.err != nil {
		return identity.Claim{}, f.err
	}
	return f.claim, nil
}

// memoryUserRepo enforces email uniqueness the way the Mongo collection's
// unique index does.
type memoryUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
}

var _ repository.UserRepository = (*memoryUserRepo)(nil)

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]domain.User)}
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *memoryUserRepo) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	stored, ok := m.byEmail[user.Email]
	if !ok {
		stored = user
		stored.ID = primitive.NewObjectID()
		stored.CreatedAt = now
	}
	stored.LastLogin = &now
	stored.LastActive = &now
	m.byEmail[user.Email] = stored
	return stored, nil
}

func (m *memoryUserRepo) TouchLastActive(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, user := range m.byEmail {
		if user.ID == id {
			now := time.Now().UTC()
			user.LastActive = &now
			m.byEmail[email] = user
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byEmail)
}
