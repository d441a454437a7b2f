package service

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// structErrors runs the tag rules on in and converts failures to FieldErrors.
func structErrors(v *validator.Validate, in any) []FieldError {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "numeric":
		return "must be numeric"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// allowed reports whether value is empty or one of the permitted values, ignoring case.
func allowed(value string, permitted []string) bool {
	if value == "" {
		return true
	}
	return slices.ContainsFunc(permitted, func(p string) bool { return strings.EqualFold(p, value) })
}

// canonical returns the permitted spelling of value.
func canonical(value string, permitted []string) string {
	for _, p := range permitted {
		if strings.EqualFold(p, value) {
			return p
		}
	}
	return value
}
