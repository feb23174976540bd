package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed rule on one field
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Validator wraps go-playground/validator with JSON field names and custom messages.
// Messages are keyed by "<jsonField>.<tag>".
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// NewValidator creates a validator reporting fields by their json names
func NewValidator(messages map[string]string) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if messages == nil {
		messages = map[string]string{}
	}
	return &Validator{validate: validate, messages: messages}
}

// Struct validates s and returns every failed rule; nil means valid
func (v *Validator) Struct(s interface{}) ([]FieldError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: v.message(fe),
		})
	}
	return out, nil
}

func (v *Validator) message(e validator.FieldError) string {
	if msg, ok := v.messages[e.Field()+"."+e.Tag()]; ok {
		return msg
	}
	return FormatFieldError(e)
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// CourseMessages are the user-facing messages for course creation rules
var CourseMessages = map[string]string{
	"title.required":       "Title must be at least 5 characters long.",
	"title.min":            "Title must be at least 5 characters long.",
	"description.required": "Description must be at least 20 characters long.",
	"description.min":      "Description must be at least 20 characters long.",
	"instructor.required":  "Instructor name is required.",
	"instructor.min":       "Instructor name is required.",
	"price.required":       "Price is required.",
	"price.gte":            "Price must be a positive number.",
	"category.required":    "Category is required.",
	"category.min":         "Category is required.",
	"thumbnailUrl.url":     "Invalid thumbnail URL provided.",
}
