package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error kinds the handlers map to HTTP status codes
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNoFields        = &Error{Kind: ErrValidation, Message: "No fields to update"}
)

// Error is a service failure with a client-facing message
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs struct tag validation and renders the first failure as a sentence
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newError(ErrValidation, "%v", err)
	}
	fe := verrs[0]
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return newError(ErrValidation, "%s is required", field)
	case "max":
		return newError(ErrValidation, "%s must be at most %s characters", field, fe.Param())
	case "min":
		return newError(ErrValidation, "%s must be at least %s", field, fe.Param())
	case "gte", "lte":
		return newError(ErrValidation, "%s is out of range", field)
	case "email":
		return newError(ErrValidation, "Invalid email format")
	case "oneof":
		return newError(ErrValidation, "%s must be one of: %s", field, fe.Param())
	}
	return newError(ErrValidation, "%s is invalid", field)
}

// humanize turns a Go field name like UserID into "User ID"
func humanize(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if (prev >= 'a' && prev <= 'z') || nextLower {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
