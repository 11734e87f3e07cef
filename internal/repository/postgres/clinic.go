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

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(base BaseRepository) repository.ClinicRepository {
	return &clinicRepository{base}
}

func (r *clinicRepository) CreateWithOwner(ctx context.Context, clinic *model.Clinic, ownerID uuid.UUID) error {
	now := time.Now()
	clinic.Touch(now)

	membership := &model.ClinicMembership{UserID: ownerID, ClinicID: clinic.ID}
	membership.Touch(now)

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clinics (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
			clinic.ID, clinic.Name, clinic.CreatedAt, clinic.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert clinic: %w", mapError(err))
		}
		return insertMembership(ctx, tx, membership)
	})
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", mapError(err))
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, updated_at = $2
		WHERE id = $3
	`
	clinic.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, clinic.Name, clinic.UpdatedAt, clinic.ID)
	if err != nil {
		return fmt.Errorf("failed to update clinic: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}
	return nil
}

// Delete removes the clinic; foreign keys cascade to its members and records.
func (r *clinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clinic: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}
	return nil
}
