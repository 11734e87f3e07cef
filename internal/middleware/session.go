package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/session"
)

// SessionResolver resolves a token to the provider's base session.
type SessionResolver interface {
	Get(ctx context.Context, token string) (*session.BaseSession, error)
}

// SessionAugmenter adds the active clinic to a base session.
type SessionAugmenter interface {
	Augment(ctx context.Context, base *session.BaseSession) (*session.Session, error)
}

// ContextSession is the gin context key holding the augmented session.
const ContextSession = "session"

// LoadSession resolves the request's token and stores the augmented session
// on the gin context and the request context. Signed-out requests carry a
// nil session. The session is rebuilt on every request.
func LoadSession(resolver SessionResolver, augmenter SessionAugmenter, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		base, err := resolver.Get(ctx, session.TokenFromRequest(c.Request, cookieName))
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		sess, err := augmenter.Augment(ctx, base)
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSession, sess)
		c.Request = c.Request.WithContext(session.WithSession(ctx, sess))
		c.Next()
	}
}
