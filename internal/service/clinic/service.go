package clinic

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
)

const msgNameRequired = "Name is required"

type ClinicServicer interface {
	CreateClinic(ctx context.Context, userID uuid.UUID, name string) (*model.Clinic, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	UpdateClinic(ctx context.Context, id uuid.UUID, name string) (*model.Clinic, error)
	DeleteClinic(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo repository.ClinicRepository
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{repo: repo}
}

// CreateClinic creates a clinic owned by userID. The clinic and the owner's
// membership are written together or not at all.
func (s *Service) CreateClinic(ctx context.Context, userID uuid.UUID, name string) (*model.Clinic, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	clinic := &model.Clinic{Name: name}
	if err := s.repo.CreateWithOwner(ctx, clinic, userID); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("clinic_id", clinic.ID.String()).
		Str("user_id", userID.String()).
		Msg("Clinic created")
	return clinic, nil
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) UpdateClinic(ctx context.Context, id uuid.UUID, name string) (*model.Clinic, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	clinic, err := s.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}
	clinic.Name = name

	if err := s.repo.Update(ctx, clinic); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	return clinic, nil
}

// DeleteClinic removes the clinic with its doctors, patients, appointments
// and memberships.
func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("clinic", err)
		}
		return fmt.Errorf("failed to delete clinic: %w", err)
	}

	log.Ctx(ctx).Info().Str("clinic_id", id.String()).Msg("Clinic deleted")
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		fe := apperrors.FieldErrors{}
		fe.Add("name", msgNameRequired)
		return "", fe
	}
	return name, nil
}
