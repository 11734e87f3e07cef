package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type DoctorService interface {
	Upsert(ctx context.Context, clinicID uuid.UUID, req *UpsertDoctorRequest) (*model.Doctor, error)
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error)
	List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error)
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}

type Service struct {
	repo    repository.DoctorRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.DoctorRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// Upsert creates a doctor in clinicID, or updates one when req.ID is set.
// An update never reaches a doctor of another clinic.
func (s *Service) Upsert(ctx context.Context, clinicID uuid.UUID, req *UpsertDoctorRequest) (*model.Doctor, error) {
	if clinicID == uuid.Nil {
		return nil, apperrors.Unauthorized(errors.New("session has no clinic"))
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doctor, err := req.ToDoctor(clinicID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid doctor data", err)
	}

	op := "create"
	if req.ID != nil {
		op = "update"
		err = s.repo.Update(ctx, doctor)
	} else {
		err = s.repo.Create(ctx, doctor)
	}
	s.observe(op, err)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to %s doctor: %w", op, err)
	}

	log.Ctx(ctx).Info().
		Str("doctor_id", doctor.ID.String()).
		Str("clinic_id", clinicID.String()).
		Str("operation", op).
		Msg("Doctor saved")
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	if doctors == nil {
		doctors = []*model.Doctor{}
	}
	return doctors, nil
}

func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, clinicID, id)
	s.observe("delete", err)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor", err)
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}

func (s *Service) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.DoctorWrites.WithLabelValues(op, metrics.Outcome(err)).Inc()
}
