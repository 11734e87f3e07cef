package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/validator"
)

const msgEmailTaken = "E-mail already registered"

type PatientRequest struct {
	Name        string `json:"name" validate:"required" msg:"required=Name is required"`
	Email       string `json:"email" validate:"required,email" msg:"required=E-mail is required;email=Inform a valid e-mail"`
	PhoneNumber string `json:"phoneNumber" validate:"required" msg:"required=Phone number is required"`
	Sex         string `json:"sex" validate:"required,sex" msg:"required=Sex is required;sex=Invalid sex"`
}

func (r *PatientRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

type PatientService interface {
	CreatePatient(ctx context.Context, clinicID uuid.UUID, req *PatientRequest) (*model.Patient, error)
	UpdatePatient(ctx context.Context, clinicID, id uuid.UUID, req *PatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
	ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	DeletePatient(ctx context.Context, clinicID, id uuid.UUID) error
}

type Service struct {
	repo      repository.PatientRepository
	validator *validator.Validator
}

func NewService(repo repository.PatientRepository) *Service {
	v := validator.New()
	v.RegisterString("sex", func(s string) bool {
		return model.Sex(s).Valid()
	})
	return &Service{repo: repo, validator: v}
}

func (s *Service) CreatePatient(ctx context.Context, clinicID uuid.UUID, req *PatientRequest) (*model.Patient, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		ClinicID:    clinicID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Sex:         model.Sex(req.Sex),
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, mapWriteError("create", err)
	}

	log.Ctx(ctx).Info().
		Str("patient_id", patient.ID.String()).
		Str("clinic_id", clinicID.String()).
		Msg("Patient created")
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, clinicID, id uuid.UUID, req *PatientRequest) (*model.Patient, error) {
	req.normalize()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patient, err := s.GetPatient(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	patient.Name = req.Name
	patient.Email = req.Email
	patient.PhoneNumber = req.PhoneNumber
	patient.Sex = model.Sex(req.Sex)

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, mapWriteError("update", err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	filters.Search = strings.TrimSpace(filters.Search)
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		patients = []*model.Patient{}
	}
	return patients, nil
}

func (s *Service) DeletePatient(ctx context.Context, clinicID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, clinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient", err)
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		fe := apperrors.FieldErrors{}
		fe.Add("email", msgEmailTaken)
		return fe
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("patient", err)
	default:
		return fmt.Errorf("failed to %s patient: %w", op, err)
	}
}
