// Package session issues, resolves and augments user sessions.
//
// A BaseSession is what the identity provider knows: who is signed in.
// A Session adds the user's active clinic and is rebuilt on every request.
package session

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type BaseSession struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Clinic is the active clinic. Both fields are nil when the user has no
// clinic yet.
type Clinic struct {
	ID   *uuid.UUID `json:"id"`
	Name *string    `json:"name"`
}

// Session is the augmented session exposed to handlers and pages.
type Session struct {
	Session BaseSession `json:"session"`
	User    User        `json:"user"`
	Clinic  Clinic      `json:"clinic"`
}

// HasClinic reports whether the session carries an active clinic.
func (s *Session) HasClinic() bool {
	return s != nil && s.Clinic.ID != nil
}

// ClinicID returns the active clinic id or uuid.Nil.
func (s *Session) ClinicID() uuid.UUID {
	if !s.HasClinic() {
		return uuid.Nil
	}
	return *s.Clinic.ID
}
