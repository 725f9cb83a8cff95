package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

var (
	// ErrValidation marks missing or malformed input. Nothing has been written when it is returned.
	ErrValidation = errors.New("validation")

	// Outbound port failures, returned by clients of other services.
	ErrDownstream     = errors.New("downstream service unavailable")
	ErrRemoteNotFound = errors.New("remote resource not found")
	ErrRemoteRejected = errors.New("remote service rejected the request")
)

// NewValidation wraps msg so that errors.Is(err, ErrValidation) holds.
func NewValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the `validate` struct tags of v and reports the first violation
// as a validation error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidation(err.Error())
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return NewValidation(fe.Field() + " is required")
	case "email":
		return NewValidation(fe.Field() + " must be a valid email address")
	case "gt", "gte", "min":
		return NewValidation(fe.Field() + " must be at least " + fe.Param())
	case "oneof":
		return NewValidation(fe.Field() + " must be one of " + fe.Param())
	default:
		return NewValidation(fe.Field() + " is invalid")
	}
}
