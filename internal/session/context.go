package session

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const sessionKeyCtx ctxKey = "clinic.session"

// WithSession stores the augmented session for the current request.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKeyCtx, sess)
}

// FromContext returns the request's session or nil.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKeyCtx).(*Session)
	return sess
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
