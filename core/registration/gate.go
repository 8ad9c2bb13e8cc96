package registration

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-signup/core"
)

var errUnknownStep = errors.New("unknown step")

// ValidateLocalStep runs the validators of a single step against the draft.
// It stops at the first failing field and returns its message as a *core.ValidationError.
func ValidateLocalStep(step Step, d Draft) error {
	form, ok := newStepForm(step, d)
	if !ok {
		return errors.Wrapf(errUnknownStep, "validating step %d", step)
	}
	if err := core.Validate.Struct(form); err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok || len(vErrs) == 0 {
			return errors.Wrapf(err, "validating %s step", step)
		}
		fe := vErrs[0]
		msg := fieldMessage(fe)
		return core.NewValidationError(errors.New(msg), core.FieldError{Field: fe.Field(), Error: msg})
	}
	return nil
}
