package model

import (
	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

type Patient struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Sex         Sex       `db:"sex" json:"sex"`
}

type PatientFilters struct {
	ClinicID uuid.UUID
	Search   string
}
