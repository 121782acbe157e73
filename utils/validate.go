package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var valx = validator.New(validator.WithRequiredStructEnabled())

var phoneRegex = regexp.MustCompile(`^\+?\d+$`)

// message generators for the validation tags we use
var messages = map[string]func(validator.FieldError) string{
	"required":   func(e validator.FieldError) string { return "is required" },
	"url":        func(e validator.FieldError) string { return "is not a valid URL" },
	"phone":      func(e validator.FieldError) string { return "is not a valid phone number" },
	"phone_list": func(e validator.FieldError) string { return "is not a valid list of phone numbers" },
	"min":        func(e validator.FieldError) string { return fmt.Sprintf("must have a minimum of %s items", e.Param()) },
}

func init() {
	// use json names in violation messages where structs have them
	valx.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	valx.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})

	// a comma separated list of phone numbers, all of which must be valid
	valx.RegisterValidation("phone_list", func(fl validator.FieldLevel) bool {
		for n := range strings.SplitSeq(fl.Field().String(), ",") {
			if !phoneRegex.MatchString(strings.TrimSpace(n)) {
				return false
			}
		}
		return true
	})
}

// Violation is a single field level failure from validating a struct
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a list of field level violations from validating a struct
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = fmt.Sprintf("field '%s' %s", v.Field, v.Message)
	}
	return strings.Join(msgs, ", ")
}

// NewValidationError creates a new validation error with a single violation
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Message: message}}}
}

// Validate validates the passed in struct, returning a ValidationError aggregating all
// field level violations if it is invalid
func Validate(obj any) error {
	err := valx.Struct(obj)
	if err == nil {
		return nil
	}
	ferrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range ferrs {
		message := fmt.Sprintf("failed tag '%s'", fe.Tag())
		if messages[fe.Tag()] != nil {
			message = messages[fe.Tag()](fe)
		}
		verr.Violations = append(verr.Violations, Violation{Field: fe.Field(), Message: message})
	}
	return verr
}
