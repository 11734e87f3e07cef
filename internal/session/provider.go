package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

// Provider creates and resolves sessions. Tokens are signed JWTs naming a
// session record; revoking the record invalidates the token immediately.
type Provider struct {
	tokens  auth.JWTService
	store   *Store
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewProvider(tokens auth.JWTService, store *Store, ttl time.Duration, m *metrics.Metrics) *Provider {
	return &Provider{
		tokens:  tokens,
		store:   store,
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
	}
}

// Create starts a session for user and returns its bearer token.
func (p *Provider) Create(ctx context.Context, user *model.User) (string, *BaseSession, error) {
	id := uuid.NewString()
	token, expiresAt, err := p.tokens.GenerateSessionToken(id, user.ID, p.ttl)
	if err != nil {
		p.observe("create", err)
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	sess := &BaseSession{
		ID:        id,
		User:      User{ID: user.ID, Name: user.Name, Email: user.Email},
		CreatedAt: p.now(),
		ExpiresAt: expiresAt,
	}
	err = p.store.Save(ctx, sess)
	p.observe("create", err)
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

// Get resolves a token. Absent, expired, revoked or forged tokens yield
// nil, nil; only storage failures are errors.
func (p *Provider) Get(ctx context.Context, token string) (*BaseSession, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		if !errors.Is(err, auth.ErrExpiredToken) {
			log.Debug().Err(err).Msg("Rejected session token")
		}
		return nil, nil
	}

	sess, err := p.store.Load(ctx, claims.SessionID)
	p.observe("get", err)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.User.ID.String() != claims.UserID {
		return nil, nil
	}
	if !sess.ExpiresAt.After(p.now()) {
		return nil, nil
	}
	return sess, nil
}

// Revoke ends the session named by token. Unknown tokens are ignored.
func (p *Provider) Revoke(ctx context.Context, token string) error {
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	err = p.store.Delete(ctx, claims.SessionID, userID)
	p.observe("revoke", err)
	return err
}

// RevokeAll ends every session of the user.
func (p *Provider) RevokeAll(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := p.store.DeleteAll(ctx, userID)
	p.observe("revoke_all", err)
	return n, err
}

func (p *Provider) observe(op string, err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.SessionOperations.WithLabelValues(op, metrics.Outcome(err)).Inc()
}
