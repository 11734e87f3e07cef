package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/guard"
	"github.com/jwalitptl/clinic-api/internal/session"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

// Guard applies a route requirement to the loaded session. Failing requests
// are redirected, never answered with an error page. It must run after
// LoadSession.
func Guard(req guard.Requirement, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := guard.Evaluate(session.FromContext(c.Request.Context()))
		decision := guard.Decide(state, req)

		outcome := "render"
		if !decision.Allow {
			outcome = "redirect"
		}
		if m != nil {
			m.GuardDecisions.WithLabelValues(state.String(), outcome).Inc()
		}

		if decision.Allow {
			c.Next()
			return
		}

		log.Ctx(c.Request.Context()).Debug().
			Str("state", state.String()).
			Str("path", c.Request.URL.Path).
			Str("redirect", decision.Redirect).
			Msg("Guard redirect")
		c.Redirect(redirectStatus(c.Request.Method), decision.Redirect)
		c.Abort()
	}
}

// RequireSession admits any signed-in user.
func RequireSession(m *metrics.Metrics) gin.HandlerFunc {
	return Guard(guard.Authenticated, m)
}

// RequireClinic admits signed-in users with an active clinic.
func RequireClinic(m *metrics.Metrics) gin.HandlerFunc {
	return Guard(guard.ClinicMember, m)
}

// GuestOnly admits signed-out visitors and sends everyone else home.
func GuestOnly(m *metrics.Metrics) gin.HandlerFunc {
	return Guard(guard.Guest, m)
}

// redirectStatus keeps GET and HEAD as they are and turns other methods
// into a GET of the target.
func redirectStatus(method string) int {
	if method == http.MethodGet || method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
