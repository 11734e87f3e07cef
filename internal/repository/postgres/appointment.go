package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

const appointmentColumns = `id, date, clinic_id, patient_id, doctor_id, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	appointment.Touch(time.Now())

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.Date,
		appointment.ClinicID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", mapError(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND clinic_id = $2`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id, clinicID); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", mapError(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1`
	args := []interface{}{filters.ClinicID}

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", len(args)+1)
		args = append(args, filters.DoctorID)
	}

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", len(args)+1)
		args = append(args, filters.PatientID)
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, filters.StartDate)
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date < $%d", len(args)+1)
		args = append(args, filters.EndDate)
	}

	query += " ORDER BY date"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", mapError(err))
	}
	return appointments, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
