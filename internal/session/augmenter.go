package session

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-api/internal/repository"
)

// Augmenter attaches the active clinic to a base session.
type Augmenter struct {
	memberships repository.MembershipRepository
}

func NewAugmenter(memberships repository.MembershipRepository) *Augmenter {
	return &Augmenter{memberships: memberships}
}

// Augment reads the user's memberships and takes the first one returned as
// the active clinic. With no membership the clinic id and name are nil.
func (a *Augmenter) Augment(ctx context.Context, base *BaseSession) (*Session, error) {
	if base == nil {
		return nil, nil
	}

	memberships, err := a.memberships.ListByUser(ctx, base.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic memberships: %w", err)
	}

	sess := &Session{
		Session: *base,
		User:    base.User,
	}
	if len(memberships) > 0 {
		first := memberships[0]
		id := first.ClinicID
		name := first.ClinicName
		sess.Clinic = Clinic{ID: &id, Name: &name}
	}
	return sess, nil
}
