package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

// TIME columns are read back as "HH:MM".
const doctorColumns = `
	id, clinic_id, name, avatar_image_url,
	available_from_week_day, available_to_week_day,
	to_char(available_from_time, 'HH24:MI') AS available_from_time,
	to_char(available_to_time, 'HH24:MI') AS available_to_time,
	specialty, appointment_price_in_cents, created_at, updated_at
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, clinic_id, name, avatar_image_url,
			available_from_week_day, available_to_week_day,
			available_from_time, available_to_time,
			specialty, appointment_price_in_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	doctor.Touch(time.Now())

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.ClinicID,
		doctor.Name,
		doctor.AvatarImageURL,
		doctor.AvailableFromWeekDay,
		doctor.AvailableToWeekDay,
		doctor.AvailableFromTime,
		doctor.AvailableToTime,
		doctor.Specialty,
		doctor.AppointmentPriceInCents,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", mapError(err))
	}
	return nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors SET
			name = $1,
			avatar_image_url = $2,
			available_from_week_day = $3,
			available_to_week_day = $4,
			available_from_time = $5,
			available_to_time = $6,
			specialty = $7,
			appointment_price_in_cents = $8,
			updated_at = $9
		WHERE id = $10 AND clinic_id = $11
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.AvatarImageURL,
		doctor.AvailableFromWeekDay,
		doctor.AvailableToWeekDay,
		doctor.AvailableFromTime,
		doctor.AvailableToTime,
		doctor.Specialty,
		doctor.AppointmentPriceInCents,
		doctor.UpdatedAt,
		doctor.ID,
		doctor.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1 AND clinic_id = $2`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id, clinicID); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", mapError(err))
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE clinic_id = $1 ORDER BY name`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", mapError(err))
	}
	return doctors, nil
}

func (r *doctorRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}
