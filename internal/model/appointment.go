package model

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	Base
	Date      time.Time `db:"date" json:"date"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
}

type AppointmentFilters struct {
	ClinicID  uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}
