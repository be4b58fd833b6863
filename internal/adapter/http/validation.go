package http

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"loanpap/internal/domain/loan"
	"loanpap/pkg/id"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	rePhone = regexp.MustCompile(`^[+]?[0-9\s\-.()]{10,20}$`)
	reZip   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

var employmentTypes = map[string]bool{
	"full-time":     true,
	"part-time":     true,
	"self-employed": true,
	"contractor":    true,
	"unemployed":    true,
	"retired":       true,
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// public ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return rePhone.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("zip", func(fl validator.FieldLevel) bool {
		return reZip.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("employment", func(fl validator.FieldLevel) bool {
		return employmentTypes[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
	})
	_ = v.RegisterValidation("loanpurpose", func(fl validator.FieldLevel) bool {
		return loan.ValidPurpose(fl.Field().String())
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "phone":
			out = append(out, FieldError{Field: field, Message: "must be a valid phone number"})
		case "zip":
			out = append(out, FieldError{Field: field, Message: "must be a valid ZIP code"})
		case "employment":
			out = append(out, FieldError{Field: field, Message: "must be one of Full-time, Part-time, Self-employed, Contractor, Unemployed, Retired"})
		case "loanpurpose":
			out = append(out, FieldError{Field: field, Message: "is not a supported loan purpose"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date formatted " + e.Param()})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
