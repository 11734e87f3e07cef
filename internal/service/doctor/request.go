package doctor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/availability"
	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/validator"
)

const (
	msgPriceRequired = "Appointment price is required"
	msgPriceInvalid  = "Invalid appointment price"
	msgPriceTooLarge = "Appointment price is too large"
)

// FormValue accepts a JSON string or number and keeps its text.
// null and absent values are empty.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

// UpsertDoctorRequest is the doctor form. A nil ID creates a doctor.
type UpsertDoctorRequest struct {
	ID                   *uuid.UUID `json:"id,omitempty"`
	Name                 string     `json:"name" validate:"required" msg:"required=Name is required"`
	AvatarImageURL       *string    `json:"avatarImageUrl,omitempty" validate:"omitempty,url" msg:"url=Invalid image URL"`
	Specialty            string     `json:"specialty" validate:"required,specialty" msg:"required=Specialty is required;specialty=Invalid specialty"`
	AppointmentPrice     FormValue  `json:"appointmentPrice" validate:"required" msg:"required=Appointment price is required"`
	AvailableFromWeekday FormValue  `json:"availableFromWeekday" validate:"required,weekday" msg:"required=Available from weekday is required;weekday=Invalid weekday"`
	AvailableToWeekday   FormValue  `json:"availableToWeekday" validate:"required,weekday" msg:"required=Available to weekday is required;weekday=Invalid weekday"`
	AvailableFromTime    string     `json:"availableFromTime" validate:"required,hhmm" msg:"required=Initial time is required;hhmm=Invalid time"`
	AvailableToTime      string     `json:"availableToTime" validate:"required,hhmm" msg:"required=End time is required;hhmm=Invalid time"`
}

// DefaultUpsertDoctorRequest holds the form's initial values (Monday to Friday).
func DefaultUpsertDoctorRequest() UpsertDoctorRequest {
	return UpsertDoctorRequest{
		AvailableFromWeekday: "1",
		AvailableToWeekday:   "5",
	}
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validator {
	v := validator.New()
	v.RegisterString("specialty", func(s string) bool {
		return model.Specialty(s).Valid()
	})
	v.RegisterString("weekday", func(s string) bool {
		_, err := availability.ParseWeekday(s)
		return err == nil
	})
	v.RegisterString("hhmm", func(s string) bool {
		_, err := availability.ParseClock(s)
		return err == nil
	})
	return v
}

// Validate reports every failing field at once.
func (r *UpsertDoctorRequest) Validate() error {
	fe := apperrors.FieldErrors{}

	if err := formValidator.Validate(r); err != nil {
		structErrs, ok := apperrors.AsFieldErrors(err)
		if !ok {
			return err
		}
		for field, msg := range structErrs {
			fe.Add(field, msg)
		}
	}

	if !fe.Has("appointmentPrice") {
		if _, err := availability.ParsePrice(string(r.AppointmentPrice)); err != nil {
			fe.Add("appointmentPrice", priceMessage(err))
		}
	}

	if ordering := availability.ValidateTimeRange(r.AvailableFromTime, r.AvailableToTime); ordering != nil {
		fe.Add(ordering.Field, ordering.Message)
	}

	return fe.Err()
}

func priceMessage(err error) string {
	switch {
	case errors.Is(err, availability.ErrPriceRequired), errors.Is(err, availability.ErrNegativePrice):
		return msgPriceRequired
	case errors.Is(err, availability.ErrPriceTooLarge):
		return msgPriceTooLarge
	default:
		return msgPriceInvalid
	}
}

// ToDoctor converts a validated request into the stored representation.
func (r *UpsertDoctorRequest) ToDoctor(clinicID uuid.UUID) (*model.Doctor, error) {
	price, err := availability.ParsePrice(string(r.AppointmentPrice))
	if err != nil {
		return nil, err
	}
	fromDay, err := availability.ParseWeekday(string(r.AvailableFromWeekday))
	if err != nil {
		return nil, err
	}
	toDay, err := availability.ParseWeekday(string(r.AvailableToWeekday))
	if err != nil {
		return nil, err
	}
	fromTime, err := availability.ParseClock(r.AvailableFromTime)
	if err != nil {
		return nil, err
	}
	toTime, err := availability.ParseClock(r.AvailableToTime)
	if err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		ClinicID:                clinicID,
		Name:                    r.Name,
		AvatarImageURL:          r.AvatarImageURL,
		AvailableFromWeekDay:    int(fromDay),
		AvailableToWeekDay:      int(toDay),
		AvailableFromTime:       availability.FormatClock(fromTime),
		AvailableToTime:         availability.FormatClock(toTime),
		Specialty:               model.Specialty(r.Specialty),
		AppointmentPriceInCents: price,
	}
	if r.ID != nil {
		doctor.ID = *r.ID
	}
	return doctor, nil
}
