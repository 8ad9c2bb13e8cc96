package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return err.Fields[0].Error
	}
	return ""
}

// FieldErrors groups field errors by field name, keeping their order.
func (err ValidationError) FieldErrors() map[string][]string {
	flds := make(map[string][]string, len(err.Fields))
	for _, fErr := range err.Fields {
		flds[fErr.Field] = append(flds[fErr.Field], fErr.Error)
	}
	return flds
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
