package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fptthinhgreenwich/qlkhohang/internal/validation"
)

// MaxBodyBytes caps the size of a decoded request body
const MaxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a request body is not a single JSON object
var ErrInvalidBody = errors.New("invalid request body")

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateRequest validates a struct against its validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeFields reads a JSON object body into a loosely typed field bag.
// Numbers are kept as json.Number so their original text survives.
func DecodeFields(r *http.Request) (validation.Fields, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields validation.Fields
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidBody)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidBody)
	}

	return fields, nil
}

// FormatValidationErrors converts validator errors to field messages
func FormatValidationErrors(err error) map[string]string {
	errs := map[string]string{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs[lowerFirst(e.Field())] = getErrorMessage(e)
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}

func lowerFirst(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}
	return string(s[0]+'a'-'A') + s[1:]
}
