package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("user not authorized")
	ErrNotFound           = errors.New("not found")
)

// FieldError is one entry of a validation error list.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// ValidationError carries the per-field messages of a rejected body.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

var validate = validator.New(validator.WithRequiredStructEnabled())

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		param := strings.ToLower(fe.Field())
		out.Fields = append(out.Fields, FieldError{Msg: fieldMessage(param, fe), Param: param})
	}
	return out
}

func fieldMessage(param string, fe validator.FieldError) string {
	name := strings.ToUpper(param[:1]) + param[1:]
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Please include a valid email"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "gte":
		return name + " must not be negative"
	}
	return name + " is invalid"
}
