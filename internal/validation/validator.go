// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validation validates API request bodies and query parameters with
// go-playground/validator v10 through a shared validator instance.
//
// Field names in messages use the struct's json tag, so errors name the field
// the client actually sent:
//
//	req := validation.RatingRequest{MovieID: 550, Rating: 11}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // apiErr.Message == "rating must be less than or equal to 10"
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one rejected field. Field is the json name the client sent.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   any
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects the field errors of one request.
type RequestValidationError struct {
	Fields []FieldError
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// APIError mirrors the API error envelope without importing the api package.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError converts the errors to a VALIDATION_ERROR response body. A single
// failure is reported inline; several are listed under details.fields.
func (ve *RequestValidationError) ToAPIError() *APIError {
	const code = "VALIDATION_ERROR"

	switch len(ve.Fields) {
	case 0:
		return &APIError{Code: code, Message: "Validation failed"}
	case 1:
		f := ve.Fields[0]
		return &APIError{
			Code:    code,
			Message: f.Message,
			Details: map[string]any{"field": f.Field, "tag": f.Tag, "value": f.Value},
		}
	}

	fields := make([]map[string]any, len(ve.Fields))
	messages := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		fields[i] = map[string]any{"field": f.Field, "tag": f.Tag, "message": f.Message}
		messages[i] = f.Field + ": " + f.Message
	}
	return &APIError{
		Code:    code,
		Message: strings.Join(messages, "; "),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the shared validator. It is safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("genreid", validateGenreID)
		_ = validate.RegisterValidation("userid", validateUserID)
	})
	return validate
}

// jsonFieldName reports the json name of a field, falling back to the Go name.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

// validateGenreID accepts a TMDB genre id: 1 to 6 ASCII digits.
func validateGenreID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) == 0 || len(s) > 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// validateUserID accepts 1 to 128 printable characters without whitespace.
func validateUserID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) == 0 || len(s) > 128 {
		return false
	}
	for _, r := range s {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// ValidateStruct validates s and returns nil or the collected field errors.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = fieldError(fe, fe.Field())
	}
	return &RequestValidationError{Fields: out}
}

// ValidateVar validates a single value against tag, naming it field in messages.
func ValidateVar(field string, value any, tag string) *RequestValidationError {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &RequestValidationError{Fields: []FieldError{{Field: field, Tag: "unknown", Message: err.Error()}}}
	}
	return &RequestValidationError{Fields: []FieldError{fieldError(fieldErrs[0], field)}}
}

func fieldError(fe validator.FieldError, field string) FieldError {
	return FieldError{
		Field:   field,
		Tag:     fe.Tag(),
		Param:   fe.Param(),
		Value:   fe.Value(),
		Message: message(fe, field),
	}
}

// message renders a client-facing message for fe about field.
func message(fe validator.FieldError, field string) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "genreid":
		return field + " must be a numeric TMDB genre id"
	case "userid":
		return field + " must be 1-128 characters without whitespace"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "min", "max":
		var unit string
		switch fe.Kind() {
		case reflect.String:
			unit = " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			unit = " items"
		}
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		return fmt.Sprintf("%s must be %s %s%s", field, bound, param, unit)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
