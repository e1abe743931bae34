package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report API field names rather than Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks the employee against the record constraints
func (e *Employee) Validate() error {
	return ValidateStruct(e)
}

// ValidateProfile checks every constraint except the password hash, which lookups by id never load
func (e *Employee) ValidateProfile() error {
	return toValidationError(validate.StructExcept(e, "PasswordHash"))
}

// ValidateStruct runs struct-tag validation and converts failures into a VALIDATION_FAILED APIError
func ValidateStruct(s interface{}) error {
	return toValidationError(validate.Struct(s))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError(err.Error(), nil)
	}

	fields := make(map[string]interface{}, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := describeFieldError(fe)
		fields[fe.Field()] = msg
		messages = append(messages, msg)
	}
	return NewValidationError("Validation failed: "+strings.Join(messages, "; "), map[string]interface{}{"fields": fields})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
	}
}
