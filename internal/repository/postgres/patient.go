package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

const patientColumns = `id, clinic_id, name, email, phone_number, sex, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	patient.Email = normalizeEmail(patient.Email)
	patient.Touch(time.Now())

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.ClinicID,
		patient.Name,
		patient.Email,
		patient.PhoneNumber,
		patient.Sex,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", mapError(err))
	}
	return nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1,
			email = $2,
			phone_number = $3,
			sex = $4,
			updated_at = $5
		WHERE id = $6 AND clinic_id = $7
	`
	patient.Email = normalizeEmail(patient.Email)
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.PhoneNumber,
		patient.Sex,
		patient.UpdatedAt,
		patient.ID,
		patient.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND clinic_id = $2`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id, clinicID); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", mapError(err))
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE clinic_id = $1`
	args := []interface{}{filters.ClinicID}

	if filters.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filters.Search+"%")
	}

	query += " ORDER BY name"

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", mapError(err))
	}
	return patients, nil
}

func (r *patientRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", mapError(err))
	}
	if err := expectOne(result); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}
