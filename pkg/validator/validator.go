package validator

import (
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-api/pkg/errors"
)

// Validator wraps go-playground/validator and reports failures as
// errors.FieldErrors keyed by the JSON field name.
//
// Per-field messages come from the `msg` struct tag, written as
// `msg:"required=Name is required;email=Inform a valid e-mail"`.
// A `*` key applies to any tag without its own message.
type Validator struct {
	validate *playground.Validate
}

func New() *Validator {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// RegisterString adds a custom tag for string-kinded fields. Tags are
// registered at startup, so an invalid tag panics.
func (v *Validator) RegisterString(tag string, fn func(string) bool) {
	err := v.validate.RegisterValidation(tag, func(fl playground.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

// Validate checks obj and returns nil or errors.FieldErrors. Only the first
// failing rule of each field is reported.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	verrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return fmt.Errorf("failed to validate: %w", err)
	}

	typ := reflect.TypeOf(obj)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	fe := errors.FieldErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), messageFor(typ, e))
	}
	return fe
}

func messageFor(typ reflect.Type, e playground.FieldError) string {
	if field, ok := typ.FieldByName(e.StructField()); ok {
		msgs := parseMessages(field.Tag.Get("msg"))
		if m, ok := msgs[e.Tag()]; ok {
			return m
		}
		if m, ok := msgs["*"]; ok {
			return m
		}
	}
	return defaultMessage(e)
}

func parseMessages(tag string) map[string]string {
	msgs := make(map[string]string)
	if tag == "" {
		return msgs
	}
	for _, part := range strings.Split(tag, ";") {
		key, msg, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		msgs[strings.TrimSpace(key)] = strings.TrimSpace(msg)
	}
	return msgs
}

func defaultMessage(e playground.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
