package validator

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"climatejobs/internal/pkg/apperr"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string)
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Struct validates v and wraps failures as an Invalid application error.
func Struct(v interface{}) error {
	if fields := Validate(v); fields != nil {
		return apperr.Validation("Invalid request body", fields)
	}
	return nil
}

func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// UUIDParam returns an Invalid error for malformed ids so handlers can reject
// them before touching the store.
func UUIDParam(name, value string) error {
	if !IsValidUUID(value) {
		return apperr.New(apperr.Invalid, "Invalid "+name+" format")
	}
	return nil
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// Coordinates validates an optional lat/lng pair.
func Coordinates(lat, lng *float64) error {
	if lat != nil && !IsValidLatitude(*lat) {
		return apperr.New(apperr.Invalid, "Invalid latitude (must be between -90 and 90)")
	}
	if lng != nil && !IsValidLongitude(*lng) {
		return apperr.New(apperr.Invalid, "Invalid longitude (must be between -180 and 180)")
	}
	return nil
}

func IsValidPhone(s string) bool {
	if s == "" {
		return true
	}
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '+':
			digits = append(digits, r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return phonePattern.MatchString(string(digits))
}
