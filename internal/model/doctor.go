package model

import (
	"github.com/google/uuid"
)

type Specialty string

const (
	SpecialtyCardiology  Specialty = "Cardiology"
	SpecialtyDermatology Specialty = "Dermatology"
	SpecialtyNeurology   Specialty = "Neurology"
	SpecialtyPediatrics  Specialty = "Pediatrics"
	SpecialtyRadiology   Specialty = "Radiology"
	SpecialtyOncology    Specialty = "Oncology"
	SpecialtyOrthopedics Specialty = "Orthopedics"
	SpecialtyGynecology  Specialty = "Gynecology"
	SpecialtyPsychiatry  Specialty = "Psychiatry"
	SpecialtyUrology     Specialty = "Urology"
)

// Specialties lists every accepted specialty in display order.
var Specialties = []Specialty{
	SpecialtyCardiology,
	SpecialtyDermatology,
	SpecialtyNeurology,
	SpecialtyPediatrics,
	SpecialtyRadiology,
	SpecialtyOncology,
	SpecialtyOrthopedics,
	SpecialtyGynecology,
	SpecialtyPsychiatry,
	SpecialtyUrology,
}

func (s Specialty) Valid() bool {
	for _, known := range Specialties {
		if s == known {
			return true
		}
	}
	return false
}

// Doctor is a clinic's practitioner with a weekly availability window.
// Weekdays are 0 (Sunday) to 6 (Saturday); times are "HH:MM".
type Doctor struct {
	Base
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name                    string    `db:"name" json:"name"`
	AvatarImageURL          *string   `db:"avatar_image_url" json:"avatar_image_url,omitempty"`
	AvailableFromWeekDay    int       `db:"available_from_week_day" json:"available_from_week_day"`
	AvailableToWeekDay      int       `db:"available_to_week_day" json:"available_to_week_day"`
	AvailableFromTime       string    `db:"available_from_time" json:"available_from_time"`
	AvailableToTime         string    `db:"available_to_time" json:"available_to_time"`
	Specialty               Specialty `db:"specialty" json:"specialty"`
	AppointmentPriceInCents int64     `db:"appointment_price_in_cents" json:"appointment_price_in_cents"`
}
