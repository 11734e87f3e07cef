package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/availability"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/validator"
)

const (
	msgDoctorUnavailable = "Doctor is not available at this time"
	msgDoctorNotFound    = "Doctor not found"
	msgPatientNotFound   = "Patient not found"
)

type CreateAppointmentRequest struct {
	Date      time.Time `json:"date" validate:"required" msg:"required=Date is required"`
	PatientID uuid.UUID `json:"patientId" validate:"required" msg:"required=Patient is required"`
	DoctorID  uuid.UUID `json:"doctorId" validate:"required" msg:"required=Doctor is required"`
}

type AppointmentService interface {
	CreateAppointment(ctx context.Context, clinicID uuid.UUID, req *CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	DeleteAppointment(ctx context.Context, clinicID, id uuid.UUID) error
}

type Service struct {
	repo      repository.AppointmentRepository
	doctors   repository.DoctorRepository
	patients  repository.PatientRepository
	location  *time.Location
	validator *validator.Validator
}

// NewService reads appointment dates in loc when matching them against
// doctor availability windows.
func NewService(repo repository.AppointmentRepository, doctors repository.DoctorRepository,
	patients repository.PatientRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		doctors:   doctors,
		patients:  patients,
		location:  loc,
		validator: validator.New(),
	}
}

// CreateAppointment books a patient with a doctor. Both must belong to
// clinicID and the date must fall inside the doctor's weekly window.
func (s *Service) CreateAppointment(ctx context.Context, clinicID uuid.UUID, req *CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	fe := apperrors.FieldErrors{}

	doctor, err := s.doctors.Get(ctx, clinicID, req.DoctorID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fe.Add("doctorId", msgDoctorNotFound)
	case err != nil:
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if _, err := s.patients.Get(ctx, clinicID, req.PatientID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get patient: %w", err)
		}
		fe.Add("patientId", msgPatientNotFound)
	}

	if doctor != nil {
		window, err := availability.NewWindow(doctor.AvailableFromWeekDay, doctor.AvailableToWeekDay,
			doctor.AvailableFromTime, doctor.AvailableToTime)
		if err != nil {
			return nil, fmt.Errorf("doctor %s has an unreadable availability window: %w", doctor.ID, err)
		}
		if !window.Contains(req.Date.In(s.location)) {
			fe.Add("date", msgDoctorUnavailable)
		}
	}

	if err := fe.Err(); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		Date:      req.Date.UTC(),
		ClinicID:  clinicID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("appointment_id", appointment.ID.String()).
		Str("doctor_id", req.DoctorID.String()).
		Time("date", appointment.Date).
		Msg("Appointment scheduled")
	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if !filters.StartDate.IsZero() && !filters.EndDate.IsZero() && !filters.EndDate.After(filters.StartDate) {
		return nil, apperrors.BadRequest("end date must be after start date", nil)
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	return appointments, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, clinicID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, clinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
