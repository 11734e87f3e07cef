package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/session"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

type fakeUsers struct {
	byEmail map[string]*model.User
	getErr  error
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	key := strings.ToLower(u.Email)
	if _, ok := f.byEmail[key]; ok {
		return repository.ErrDuplicate
	}
	u.ID = uuid.New()
	f.byEmail[key] = u
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeSessions struct {
	created []uuid.UUID
	revoked []string
}

func (f *fakeSessions) Create(_ context.Context, u *model.User) (string, *session.BaseSession, error) {
	f.created = append(f.created, u.ID)
	return "token-" + u.ID.String(), &session.BaseSession{
		ID:        uuid.NewString(),
		User:      session.User{ID: u.ID, Name: u.Name, Email: u.Email},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeSessions) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeSessions) RevokeAll(_ context.Context, _ uuid.UUID) (int, error) {
	return len(f.created), nil
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendWelcome(_ context.Context, to, _ string) error {
	f.sent = append(f.sent, to)
	return f.err
}

type fixture struct {
	svc      *Service
	users    *fakeUsers
	sessions *fakeSessions
	email    *fakeEmail
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &fakeUsers{byEmail: make(map[string]*model.User)},
		sessions: &fakeSessions{},
		email:    &fakeEmail{},
		metrics:  metrics.NewNop(),
	}
	cfg := config.AuthConfig{BcryptCost: bcrypt.MinCost, MaxFailedAttempts: 3, LockoutDuration: time.Minute}
	f.svc = NewService(f.users, f.sessions, security.NewBcryptHasher(bcrypt.MinCost), f.email, cfg, f.metrics)
	return f
}

func signUp(t *testing.T, f *fixture) *Result {
	t.Helper()
	res, err := f.svc.SignUp(context.Background(), &SignUpRequest{
		Name:     " Ana ",
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return res
}

func TestSignUp_Success(t *testing.T) {
	f := newFixture(t)
	res := signUp(t, f)

	assert.Equal(t, "/dashboard", res.Redirect)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Ana", res.Session.User.Name)
	assert.Equal(t, []string{"ana@example.com"}, f.email.sent)
	assert.NotEqual(t, "correct-horse", f.users.byEmail["ana@example.com"].PasswordHash)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthAttempts.WithLabelValues("sign_up", "success")))
}

func TestSignUp_Duplicate(t *testing.T) {
	f := newFixture(t)
	signUp(t, f)

	_, err := f.svc.SignUp(context.Background(), &SignUpRequest{
		Name:     "Other",
		Email:    "ana@example.com",
		Password: "another-password",
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUserAlreadyExists))
	assert.Equal(t, MsgDuplicateEmail, err.Error())
	assert.Len(t, f.sessions.created, 1)
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignUp(context.Background(), &SignUpRequest{Name: "  ", Email: "nope", Password: "short"})
	fe, ok := apperrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Name is required.", fe["name"])
	assert.Equal(t, "Inform a valid e-mail", fe["email"])
	assert.Equal(t, "Password must have 8 characters or more", fe["password"])

	_, err = f.svc.SignUp(context.Background(), &SignUpRequest{Name: "A", Password: "long-enough"})
	fe, ok = apperrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "E-mail is required", fe["email"])
}

func TestSignUp_WelcomeEmailFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.email.err = errors.New("smtp down")

	res := signUp(t, f)
	assert.NotEmpty(t, res.Token)
}

func TestSignIn(t *testing.T) {
	f := newFixture(t)
	signUp(t, f)

	res, err := f.svc.SignIn(context.Background(), &SignInRequest{Email: "ANA@example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", res.Redirect)

	_, err = f.svc.SignIn(context.Background(), &SignInRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = f.svc.SignIn(context.Background(), &SignInRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Equal(t, MsgInvalidCredentials, err.Error())
}

func TestSignIn_LocksAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	signUp(t, f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.SignIn(ctx, &SignInRequest{Email: "ana@example.com", Password: "wrong-password"})
		assert.Equal(t, ErrInvalidCredentials, err)
	}

	_, err := f.svc.SignIn(ctx, &SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrTooManyRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthAttempts.WithLabelValues("sign_in", "locked")))
}

func TestSignIn_SuccessResetsFailures(t *testing.T) {
	f := newFixture(t)
	signUp(t, f)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _ = f.svc.SignIn(ctx, &SignInRequest{Email: "ana@example.com", Password: "wrong-password"})
	}
	_, err := f.svc.SignIn(ctx, &SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = f.svc.SignIn(ctx, &SignInRequest{Email: "ana@example.com", Password: "wrong-password"})
	}
	_, err = f.svc.SignIn(ctx, &SignInRequest{Email: "ana@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestSignIn_StorageFailureIsNotInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.users.getErr = errors.New("connection refused")

	_, err := f.svc.SignIn(context.Background(), &SignInRequest{Email: "ana@example.com", Password: "whatever"})
	require.Error(t, err)
	_, isApp := apperrors.As(err)
	assert.False(t, isApp)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)

	next, err := f.svc.SignOut(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "/authentication", next)
	assert.Equal(t, []string{"tok"}, f.sessions.revoked)

	next, err = f.svc.SignOut(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/authentication", next)
	assert.Len(t, f.sessions.revoked, 1)
}

func TestRevokeAll(t *testing.T) {
	f := newFixture(t)
	signUp(t, f)

	n, err := f.svc.RevokeAll(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
