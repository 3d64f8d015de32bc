// internal/app/system/inputval/inputval.go
//
// Package inputval validates request payloads using struct tags.
// Fields declare rules with `validate:"..."` and a human-readable
// `label:"..."` used to build the messages returned to clients.
package inputval

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Resolve field labels from the `label` tag so error messages read
	// "Title is required." instead of "Title failed on required".
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation("phonedigits", validPhoneDigits)
	_ = validate.RegisterValidation("itemtype", validItemType)
}

// validPhoneDigits accepts any string carrying at least ten digits.
// Campus phone numbers arrive with country codes, spaces, and dashes,
// so the rule counts digits rather than matching a single format.
func validPhoneDigits(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

// validItemType accepts LOST or FOUND in any letter case.
func validItemType(fl validator.FieldLevel) bool {
	switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
	case "LOST", "FOUND":
		return true
	}
	return false
}

// FieldError is a single validation failure.
type FieldError struct {
	Field   string // struct field name (json-facing callers use Details)
	Message string
}

// Result collects validation failures for one input struct.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when valid.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; " for logging.
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Details returns a field-to-message map suitable for the JSON error
// envelope. Later failures on the same field do not overwrite earlier
// ones.
func (r *Result) Details() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Validate runs the struct's tag rules and returns the collected
// failures in declaration order.
func Validate(input any) *Result {
	result := &Result{}

	err := validate.Struct(input)
	if err == nil {
		return result
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Errors = append(result.Errors, FieldError{Message: "Invalid input."})
		return result
	}

	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.StructField(),
			Message: messageFor(fe),
		})
	}
	return result
}

// messageFor translates a validator failure into a client-facing
// sentence using the field's label.
func messageFor(fe validator.FieldError) string {
	label := fe.Field()

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "min":
		return label + " must be at least " + fe.Param() + " characters."
	case "max":
		return label + " must be at most " + fe.Param() + " characters."
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "phonedigits":
		return label + " must contain at least 10 digits."
	case "itemtype":
		return label + " must be LOST or FOUND."
	case "url":
		return label + " must be a valid URL."
	default:
		return label + " is invalid."
	}
}
