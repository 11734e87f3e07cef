package model

import (
	"github.com/google/uuid"
)

// Clinic is the tenancy root. Doctors, patients and appointments belong to
// exactly one clinic and are deleted with it.
type Clinic struct {
	Base
	Name string `db:"name" json:"name"`
}

// ClinicMembership links a user to a clinic (users_to_clinics).
type ClinicMembership struct {
	Base
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`

	// Joined from clinics when listing a user's memberships.
	ClinicName string `db:"clinic_name" json:"clinic_name,omitempty"`
}
