package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	ClinicRepository interface {
		// CreateWithOwner inserts the clinic and the owner's membership atomically.
		CreateWithOwner(ctx context.Context, clinic *model.Clinic, ownerID uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	MembershipRepository interface {
		Create(ctx context.Context, membership *model.ClinicMembership) error
		// ListByUser returns memberships in storage order; no ordering is imposed.
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.ClinicMembership, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		// Update only touches a doctor owned by doctor.ClinicID.
		Update(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error)
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Update(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
	}
)
