// Package guard decides whether a page may render for the current session
// or where the visitor must be sent instead.
package guard

import (
	"github.com/jwalitptl/clinic-api/internal/session"
)

const (
	LoginPath      = "/authentication"
	ClinicFormPath = "/clinic-form"
	HomePath       = "/dashboard"
)

type State int

const (
	Unauthenticated State = iota
	AuthenticatedNoClinic
	AuthenticatedWithClinic
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedNoClinic:
		return "authenticated_no_clinic"
	case AuthenticatedWithClinic:
		return "authenticated_with_clinic"
	default:
		return "unknown"
	}
}

// Requirement is what a route needs from the session.
type Requirement int

const (
	// Guest routes are for signed-out visitors (the login page).
	Guest Requirement = iota
	// Authenticated routes need a user but not a clinic (clinic creation).
	Authenticated
	// ClinicMember routes need a user with an active clinic.
	ClinicMember
)

// Decision is either Allow or a redirect target.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{Redirect: to} }

// Evaluate classifies the augmented session.
func Evaluate(sess *session.Session) State {
	switch {
	case sess == nil:
		return Unauthenticated
	case !sess.HasClinic():
		return AuthenticatedNoClinic
	default:
		return AuthenticatedWithClinic
	}
}

// Decide applies a route requirement to a session state.
func Decide(state State, req Requirement) Decision {
	switch req {
	case Guest:
		if state == Unauthenticated {
			return allow()
		}
		return redirect(HomePath)
	case Authenticated:
		if state == Unauthenticated {
			return redirect(LoginPath)
		}
		return allow()
	case ClinicMember:
		switch state {
		case Unauthenticated:
			return redirect(LoginPath)
		case AuthenticatedNoClinic:
			return redirect(ClinicFormPath)
		default:
			return allow()
		}
	default:
		return redirect(LoginPath)
	}
}
