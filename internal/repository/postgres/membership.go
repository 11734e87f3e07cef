package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type membershipRepository struct {
	BaseRepository
}

func NewMembershipRepository(base BaseRepository) repository.MembershipRepository {
	return &membershipRepository{base}
}

const insertMembershipQuery = `
	INSERT INTO users_to_clinics (id, user_id, clinic_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)
`

func insertMembership(ctx context.Context, ext sqlx.ExecerContext, m *model.ClinicMembership) error {
	if _, err := ext.ExecContext(ctx, insertMembershipQuery,
		m.ID, m.UserID, m.ClinicID, m.CreatedAt, m.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert membership: %w", mapError(err))
	}
	return nil
}

func (r *membershipRepository) Create(ctx context.Context, m *model.ClinicMembership) error {
	m.Touch(time.Now())
	return insertMembership(ctx, r.db, m)
}

// ListByUser has no ORDER BY. The first row is whatever the database
// returns first.
func (r *membershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.ClinicMembership, error) {
	query := `
		SELECT uc.id, uc.user_id, uc.clinic_id, uc.created_at, uc.updated_at,
			c.name AS clinic_name
		FROM users_to_clinics uc
		JOIN clinics c ON c.id = uc.clinic_id
		WHERE uc.user_id = $1
	`
	var memberships []*model.ClinicMembership
	if err := r.db.SelectContext(ctx, &memberships, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", mapError(err))
	}
	return memberships, nil
}
