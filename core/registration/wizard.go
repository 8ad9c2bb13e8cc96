package registration

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-signup/core"
)

type (
	// Backend is the server side of the registration flow.
	Backend interface {
		// ValidateStep checks the fields of one step; it returns a *RemoteError on validation failure.
		ValidateStep(ctx context.Context, fields map[string]string) error
		// Register submits the complete registration; it returns a *RemoteError on validation failure.
		Register(ctx context.Context, reg Registration) error
	}

	// Notifier presents the wizard's outcomes to the student.
	Notifier interface {
		// Alert shows a blocking error message.
		Alert(msg string)
		// StepChanged is called after the current step changes.
		StepChanged(step Step)
		// Registered shows the terminal confirmation.
		Registered(receipt Receipt)
	}
)

// State of the wizard, in addition to its current step.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Wizard drives a student registration through its four steps.
// At most one remote call is in flight at any time.
type Wizard struct {
	backend  Backend
	notifier Notifier
	logger   core.Logger

	mu      sync.Mutex
	step    Step
	state   State
	loading bool
	draft   Draft
}

func NewWizard(backend Backend, notifier Notifier, logger core.Logger) *Wizard {
	return &Wizard{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		step:     FirstStep,
		state:    StateEditing,
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Loading reports whether a remote call is in flight.
func (w *Wizard) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Draft returns a copy of the current form values.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Update mutates the draft in place.
func (w *Wizard) Update(fn func(d *Draft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSucceeded {
		return ErrAlreadyDone
	}
	fn(&w.draft)
	return nil
}

// Prev moves back one step without any validation.
// It returns ErrBusy while a verification or submission is in flight: the
// pending response would otherwise advance or fail a step the student already left.
func (w *Wizard) Prev() error {
	w.mu.Lock()
	if w.loading {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.state == StateSucceeded {
		w.mu.Unlock()
		return ErrAlreadyDone
	}
	if w.step <= FirstStep {
		w.mu.Unlock()
		return ErrFirstStep
	}
	w.step--
	w.state = StateEditing
	step := w.step
	w.mu.Unlock()

	w.notifier.StepChanged(step)
	return nil
}

// Next validates the current step locally, then remotely, and advances one step on success.
// On failure the step is unchanged and the message is shown through the Notifier.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	if w.loading {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.state == StateSucceeded {
		w.mu.Unlock()
		return ErrAlreadyDone
	}
	step, draft := w.step, w.draft

	if err := ValidateLocalStep(step, draft); err != nil {
		w.mu.Unlock()
		w.notifier.Alert(UserMessage(err))
		return err
	}

	fields := StepFields(step, draft)
	if len(fields) == 0 {
		newStep := w.advance()
		w.mu.Unlock()
		w.notifier.StepChanged(newStep)
		return nil
	}

	w.loading = true
	w.mu.Unlock()

	err := w.backend.ValidateStep(ctx, fields)

	w.mu.Lock()
	w.loading = false
	if err != nil {
		w.mu.Unlock()
		w.logger.Warn("step verification failed", errors.Wrapf(err, "verifying %s step", step))
		w.notifier.Alert(UserMessage(err))
		return errors.Wrapf(err, "verifying %s step", step)
	}
	newStep := w.advance()
	w.mu.Unlock()

	w.logger.Debug("step verified", map[string]interface{}{"step": step.String()})
	w.notifier.StepChanged(newStep)
	return nil
}

// advance moves one step forward, capped at LastStep. w.mu must be held.
func (w *Wizard) advance() Step {
	if w.step < LastStep {
		w.step++
	}
	w.state = StateEditing
	return w.step
}

// Submit re-validates the last step and sends the registration.
// On success the draft is discarded and the receipt is shown; on failure the draft is kept for a retry.
func (w *Wizard) Submit(ctx context.Context) (Receipt, error) {
	w.mu.Lock()
	if w.loading {
		w.mu.Unlock()
		return Receipt{}, ErrBusy
	}
	if w.state == StateSucceeded {
		w.mu.Unlock()
		return Receipt{}, ErrAlreadyDone
	}
	if w.step != LastStep {
		w.mu.Unlock()
		return Receipt{}, ErrNotLastStep
	}
	draft := w.draft

	if err := ValidateLocalStep(LastStep, draft); err != nil {
		w.mu.Unlock()
		w.notifier.Alert(UserMessage(err))
		return Receipt{}, err
	}

	reg := NewRegistration(draft)
	w.loading = true
	w.state = StateSubmitting
	w.mu.Unlock()

	err := w.backend.Register(ctx, reg)

	w.mu.Lock()
	w.loading = false
	if err != nil {
		w.state = StateFailed
		w.mu.Unlock()
		w.logger.Error("registration failed", errors.Wrap(err, "registering"))
		w.notifier.Alert(UserMessage(err))
		return Receipt{}, errors.Wrap(err, "registering")
	}
	w.state = StateSucceeded
	w.draft = Draft{}
	w.mu.Unlock()

	receipt := Receipt{Name: reg.Name, Phone: reg.Phone, Password: reg.Password}
	w.logger.Info("student registered", map[string]interface{}{"phone": reg.Phone})
	w.notifier.Registered(receipt)
	return receipt, nil
}
