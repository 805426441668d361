// Package validate checks form input with struct tags.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-gabbai/internal/config"
)

// ErrValidation matches every *FieldErrors.
var ErrValidation = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(config.DateFormatISO, fl.Field().String())
		return err == nil
	})
	return v
}

// FieldError describes one failing field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Message renders the failure for people.
func (e FieldError) Message() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	case "isodate":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", e.Field)
	case "gt", "gte", "min":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
	}
}

// FieldErrors lists every failing field of a form.
type FieldErrors struct {
	Fields []FieldError
}

func (e *FieldErrors) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

// Has reports whether the named field failed.
func (e *FieldErrors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Struct validates v against its `validate` tags.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &FieldErrors{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// Required returns a FieldErrors for the named empty fields, or nil.
func Required(fields map[string]string) error {
	var out []FieldError
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			out = append(out, FieldError{Field: name, Rule: "required"})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &FieldErrors{Fields: out}
}
