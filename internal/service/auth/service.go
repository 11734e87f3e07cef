package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/email"
	"github.com/jwalitptl/clinic-api/internal/guard"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/session"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
	"github.com/jwalitptl/clinic-api/pkg/validator"
)

const (
	MsgDuplicateEmail     = "E-mail already registered. Please use another e-mail."
	MsgInvalidCredentials = "Invalid credentials. Please try again."
	MsgTooManyAttempts    = "Too many failed attempts. Please try again later."
	MsgGeneric            = "Something went wrong. Please try again."
)

var (
	ErrInvalidCredentials = &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: MsgInvalidCredentials}
	ErrDuplicateEmail     = &apperrors.AppError{Code: apperrors.ErrUserAlreadyExists, Message: MsgDuplicateEmail}
	ErrTooManyAttempts    = &apperrors.AppError{Code: apperrors.ErrTooManyRequests, Message: MsgTooManyAttempts}
)

// SessionProvider issues and revokes sessions.
type SessionProvider interface {
	Create(ctx context.Context, user *model.User) (string, *session.BaseSession, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) (int, error)
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required" msg:"required=Name is required."`
	Email    string `json:"email" validate:"required,email" msg:"required=E-mail is required;email=Inform a valid e-mail"`
	Password string `json:"password" validate:"min=8" msg:"*=Password must have 8 characters or more"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"required=E-mail is required;email=Inform a valid e-mail"`
	Password string `json:"password" validate:"required" msg:"required=Password is required"`
}

// Result is a started session plus where the client should go next.
type Result struct {
	Token    string               `json:"token"`
	Session  *session.BaseSession `json:"session"`
	Redirect string               `json:"redirect"`
}

type AuthServicer interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*Result, error)
	SignIn(ctx context.Context, req *SignInRequest) (*Result, error)
	SignOut(ctx context.Context, token string) (string, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) (int, error)
}

type Service struct {
	users     repository.UserRepository
	sessions  SessionProvider
	hasher    security.PasswordHasher
	emailSvc  email.Service
	validator *validator.Validator
	attempts  *cache.Cache
	cfg       config.AuthConfig
	metrics   *metrics.Metrics
}

func NewService(users repository.UserRepository, sessions SessionProvider, hasher security.PasswordHasher,
	emailSvc email.Service, cfg config.AuthConfig, m *metrics.Metrics) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		emailSvc:  emailSvc,
		validator: validator.New(),
		attempts:  cache.New(cfg.LockoutDuration, 2*cfg.LockoutDuration),
		cfg:       cfg,
		metrics:   m,
	}
}

func (s *Service) SignUp(ctx context.Context, req *SignUpRequest) (*Result, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		s.observe("sign_up", "invalid")
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.observe("sign_up", "error")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.observe("sign_up", "duplicate")
			return nil, ErrDuplicateEmail
		}
		s.observe("sign_up", "error")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.observe("sign_up", "error")
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to send welcome e-mail")
	}

	s.observe("sign_up", "success")
	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return &Result{Token: token, Session: sess, Redirect: guard.HomePath}, nil
}

// SignIn checks credentials. After MaxFailedAttempts consecutive failures an
// e-mail is locked out for LockoutDuration.
func (s *Service) SignIn(ctx context.Context, req *SignInRequest) (*Result, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		s.observe("sign_in", "invalid")
		return nil, err
	}

	key := strings.ToLower(req.Email)
	if s.locked(key) {
		s.observe("sign_in", "locked")
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordFailure(ctx, key)
			return nil, ErrInvalidCredentials
		}
		s.observe("sign_in", "error")
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailure(ctx, key)
		return nil, ErrInvalidCredentials
	}
	s.attempts.Delete(key)

	token, sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.observe("sign_in", "error")
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.observe("sign_in", "success")
	return &Result{Token: token, Session: sess, Redirect: guard.HomePath}, nil
}

// SignOut revokes the session and returns the page to show next.
func (s *Service) SignOut(ctx context.Context, token string) (string, error) {
	if token != "" {
		if err := s.sessions.Revoke(ctx, token); err != nil {
			s.observe("sign_out", "error")
			return "", fmt.Errorf("failed to revoke session: %w", err)
		}
	}
	s.observe("sign_out", "success")
	return guard.LoginPath, nil
}

// RevokeAll signs the user out everywhere.
func (s *Service) RevokeAll(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.sessions.RevokeAll(ctx, userID)
	if err != nil {
		s.observe("revoke_all", "error")
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	s.observe("revoke_all", "success")
	log.Ctx(ctx).Info().Str("user_id", userID.String()).Int("count", n).Msg("Sessions revoked")
	return n, nil
}

func (s *Service) locked(key string) bool {
	n, found := s.attempts.Get(key)
	return found && n.(int) >= s.maxAttempts()
}

func (s *Service) recordFailure(ctx context.Context, key string) {
	if err := s.attempts.Add(key, 1, s.cfg.LockoutDuration); err != nil {
		// already tracked; the first expiry stands
		_, _ = s.attempts.IncrementInt(key, 1)
	}
	s.observe("sign_in", "failure")

	if s.locked(key) {
		log.Ctx(ctx).Warn().Str("email", key).Dur("lockout", s.cfg.LockoutDuration).Msg("Sign-in locked after repeated failures")
	}
}

func (s *Service) maxAttempts() int {
	if s.cfg.MaxFailedAttempts <= 0 {
		return 5
	}
	return s.cfg.MaxFailedAttempts
}

func (s *Service) observe(kind, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.AuthAttempts.WithLabelValues(kind, outcome).Inc()
}

var _ AuthServicer = (*Service)(nil)

