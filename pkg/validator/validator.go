package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

var global *validator.Validate

const (
	ErrFieldRequired      = "Field is required"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

// New builds a validator that reports wire-level field names: struct fields
// are referred to by their json tag so error payloads match what the client
// actually sent.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func Validate(structure any) error {
	return Validator().Struct(structure)
}

// MissingFields extracts the json names of every required field absent from
// the payload, in struct declaration order. Empty when the error carries no
// required-tag failures.
func MissingFields(err error) []string {
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		return nil
	}
	var missing []string
	for _, fe := range vErrors {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	return missing
}

// Message renders the first validation failure as a short client-facing note.
func Message(err error) string {
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return ErrUnknownValidation
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "min":
		msg = ErrFieldBelowMinLen
	case "max":
		msg = ErrFieldExceedsMaxLen
	default:
		msg = ErrUnknownValidation
	}
	return msg + ": " + ve.Field()
}
