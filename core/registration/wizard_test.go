package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, draft Draft) (*Wizard, *BackendMock, *NotifierMock) {
	freezeTime(t, time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC))
	backend := &BackendMock{}
	notifier := &NotifierMock{}
	w := NewWizard(backend, notifier, LoggerMock{})
	require.NoError(t, w.Update(func(d *Draft) { *d = draft }))
	return w, backend, notifier
}

func goToStep(t *testing.T, w *Wizard, step Step) {
	for w.Step() < step {
		require.NoError(t, w.Next(context.Background()))
	}
}

func TestWizard_Prev(t *testing.T) {
	w, backend, notifier := setup(t, Draft{})

	// empty draft: nothing would validate, going back must not care
	assert.Equal(t, ErrFirstStep, w.Prev())
	assert.Equal(t, FirstStep, w.Step())

	w.step = StepSecurity
	for want := StepGuardian; want >= FirstStep; want-- {
		require.NoError(t, w.Prev())
		assert.Equal(t, want, w.Step())
	}
	assert.Equal(t, ErrFirstStep, w.Prev())

	assert.Empty(t, backend.StepCalls)
	assert.Empty(t, backend.Registrations)
	assert.Empty(t, notifier.Alerts)
	assert.Equal(t, []Step{StepGuardian, StepAcademic, StepPersonal}, notifier.Steps)
}

func TestWizard_Next(t *testing.T) {
	draft := ValidDraftFixture(2026)
	errDuplicate := &RemoteError{StatusCode: 422, Fields: map[string][]string{"phone": {"The phone has already been taken."}}}

	tests := []struct {
		name        string
		from        Step
		mutate      func(d *Draft)
		remoteErr   error
		wantStep    Step
		wantAlert   string
		wantCalls   int
		wantPayload map[string]string
	}{
		{
			name: "personal: advances", from: StepPersonal, wantStep: StepAcademic, wantCalls: 1,
			wantPayload: map[string]string{"name": "Mona Adel", "email": "mona@test.eg", "phone": "01012345678"},
		},
		{
			name: "academic: maps labels", from: StepAcademic, wantStep: StepGuardian, wantCalls: 1,
			wantPayload: map[string]string{
				"education_stage": StagePrep, "grade_level": "8", "birth_date": "2012-03-15", "gender": GenderFemale,
			},
		},
		{
			name: "guardian: advances", from: StepGuardian, wantStep: StepSecurity, wantCalls: 1,
			wantPayload: map[string]string{"guardian_name": "Adel Hassan", "parent_phone": "01112345678"},
		},
		{name: "security: capped without remote call", from: StepSecurity, wantStep: StepSecurity},
		{
			name: "local failure: no network", from: StepPersonal, mutate: func(d *Draft) { d.Phone = "0101234567" },
			wantStep: StepPersonal, wantAlert: "enter valid Egyptian phone",
		},
		{
			name: "local failure: same guardian phone", from: StepGuardian, mutate: func(d *Draft) { d.GuardianPhone = d.Phone },
			wantStep: StepGuardian, wantAlert: "must differ from student phone",
		},
		{
			name: "remote failure", from: StepPersonal, remoteErr: errDuplicate,
			wantStep: StepPersonal, wantAlert: "The phone has already been taken.", wantCalls: 1,
		},
		{
			name: "remote age logic", from: StepAcademic,
			remoteErr: &RemoteError{Fields: map[string][]string{"birth_date": {"Invalid birth date (Age logic)"}}},
			wantStep:  StepAcademic, wantAlert: ageLogicLocalized, wantCalls: 1,
		},
		{
			name: "transport failure", from: StepGuardian, remoteErr: errors.New("connection reset"),
			wantStep: StepGuardian, wantAlert: GenericMessage, wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft
			if tt.mutate != nil {
				tt.mutate(&d)
			}
			w, backend, notifier := setup(t, d)
			w.step = tt.from
			backend.ValidateStepFunc = func(context.Context, map[string]string) error { return tt.remoteErr }

			err := w.Next(context.Background())
			assert.Equal(t, tt.wantStep, w.Step())
			assert.False(t, w.Loading())
			assert.Len(t, backend.StepCalls, tt.wantCalls)
			if tt.wantPayload != nil && len(backend.StepCalls) > 0 {
				assert.Equal(t, tt.wantPayload, backend.StepCalls[0])
			}

			if tt.wantAlert != "" {
				assert.Error(t, err)
				assert.Equal(t, []string{tt.wantAlert}, notifier.Alerts)
				assert.Empty(t, notifier.Steps)
			} else {
				assert.NoError(t, err)
				assert.Empty(t, notifier.Alerts)
				assert.Equal(t, []Step{tt.wantStep}, notifier.Steps)
			}
		})
	}
}

func TestWizard_busy(t *testing.T) {
	w, backend, _ := setup(t, ValidDraftFixture(2026))

	release := make(chan struct{})
	backend.ValidateStepFunc = func(context.Context, map[string]string) error {
		<-release
		return nil
	}

	done := make(chan error)
	go func() { done <- w.Next(context.Background()) }()
	require.Eventually(t, w.Loading, time.Second, time.Millisecond)

	assert.Equal(t, ErrBusy, w.Next(context.Background()))
	assert.Equal(t, ErrBusy, w.Prev())
	_, err := w.Submit(context.Background())
	assert.Equal(t, ErrBusy, err)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepAcademic, w.Step())
	assert.Len(t, backend.StepCalls, 1)
}

func TestWizard_Submit(t *testing.T) {
	for _, rememberMe := range []bool{true, false} {
		rememberMe := rememberMe
		t.Run("end to end", func(t *testing.T) {
			d := ValidDraftFixture(2026)
			d.RememberMe = rememberMe
			w, backend, notifier := setup(t, d)

			goToStep(t, w, LastStep)
			receipt, err := w.Submit(context.Background())
			require.NoError(t, err)

			require.Len(t, backend.Registrations, 1)
			reg := backend.Registrations[0]
			assert.Equal(t, RoleStudent, reg.Role)
			if rememberMe {
				assert.Equal(t, "1", reg.RememberMe)
			} else {
				assert.Equal(t, "0", reg.RememberMe)
			}
			assert.Equal(t, "Mona Adel", reg.Name)
			assert.Equal(t, "8", reg.GradeLevel)
			assert.Equal(t, GenderFemale, reg.Gender)
			assert.Equal(t, StagePrep, reg.EducationStage)
			assert.Equal(t, "01112345678", reg.ParentPhone)
			assert.Equal(t, "Secret123", reg.PasswordConfirmation)
			assert.NotNil(t, reg.ProfilePhoto)

			wantReceipt := Receipt{Name: "Mona Adel", Phone: "01012345678", Password: "Secret123"}
			assert.Equal(t, wantReceipt, receipt)
			assert.Equal(t, []Receipt{wantReceipt}, notifier.Receipts)
			assert.Len(t, backend.StepCalls, 3)

			// draft is discarded, wizard is closed
			assert.Equal(t, StateSucceeded, w.State())
			assert.Equal(t, Draft{}, w.Draft())
			_, err = w.Submit(context.Background())
			assert.Equal(t, ErrAlreadyDone, err)
			assert.Equal(t, ErrAlreadyDone, w.Update(func(d *Draft) {}))
			assert.Len(t, backend.Registrations, 1)
		})
	}
}

func TestWizard_Submit_notLastStep(t *testing.T) {
	w, backend, _ := setup(t, ValidDraftFixture(2026))
	w.step = StepGuardian

	_, err := w.Submit(context.Background())
	assert.Equal(t, ErrNotLastStep, err)
	assert.Empty(t, backend.Registrations)
}

func TestWizard_Submit_localFailure(t *testing.T) {
	d := ValidDraftFixture(2026)
	d.ConfirmPassword = "Secret124"
	w, backend, notifier := setup(t, d)
	w.step = LastStep

	_, err := w.Submit(context.Background())
	assert.EqualError(t, err, "mismatch")
	assert.Equal(t, []string{"mismatch"}, notifier.Alerts)
	assert.Empty(t, backend.Registrations)
	assert.Equal(t, StateEditing, w.State())
}

func TestWizard_Submit_remoteFailureThenRetry(t *testing.T) {
	d := ValidDraftFixture(2026)
	w, backend, notifier := setup(t, d)
	w.step = LastStep

	backend.RegisterFunc = func(context.Context, Registration) error {
		return &RemoteError{StatusCode: 422, Fields: map[string][]string{"birth_date": {"Invalid birth date (Age logic)"}}}
	}
	_, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, w.State())
	assert.Equal(t, []string{ageLogicLocalized}, notifier.Alerts)
	assert.Equal(t, d, w.Draft(), "draft kept after failure")
	assert.Empty(t, notifier.Receipts)

	// student fixes the birth date and resubmits
	require.NoError(t, w.Update(func(d *Draft) { d.BirthDate = "2011-01-01" }))
	backend.RegisterFunc = nil
	_, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, w.State())
	assert.Len(t, backend.Registrations, 2)
	assert.Len(t, notifier.Receipts, 1)
}
