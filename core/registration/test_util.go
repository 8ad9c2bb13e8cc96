package registration

import (
	"context"
	"fmt"
	"sync"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// ValidDraftFixture returns a draft that passes every step, for a birth date 14 years before `year`.
func ValidDraftFixture(year int) Draft {
	return Draft{
		FullName:        "  Mona Adel  ",
		Email:           "mona@test.eg",
		Phone:           "01012345678",
		EducationStage:  "المرحلة الإعدادية",
		GradeLevel:      "الصف الثاني الإعدادي",
		BirthDate:       fmt.Sprintf("%04d-03-15", year-14),
		Gender:          "أنثى",
		GuardianName:    "Adel Hassan",
		GuardianPhone:   "01112345678",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		Photo:           NewPhoto("me.png", pngHeader),
		Governorate:     "الجيزة",
		City:            "الدقي",
		AgreeTerms:      true,
		RememberMe:      true,
	}
}

// BackendMock records calls and returns the configured errors.
type BackendMock struct {
	mu            sync.Mutex
	StepCalls     []map[string]string
	Registrations []Registration

	ValidateStepFunc func(ctx context.Context, fields map[string]string) error
	RegisterFunc     func(ctx context.Context, reg Registration) error
}

var _ Backend = (*BackendMock)(nil)

func (b *BackendMock) ValidateStep(ctx context.Context, fields map[string]string) error {
	b.mu.Lock()
	b.StepCalls = append(b.StepCalls, fields)
	fn := b.ValidateStepFunc
	b.mu.Unlock()
	if fn != nil {
		return fn(ctx, fields)
	}
	return nil
}

func (b *BackendMock) Register(ctx context.Context, reg Registration) error {
	b.mu.Lock()
	b.Registrations = append(b.Registrations, reg)
	fn := b.RegisterFunc
	b.mu.Unlock()
	if fn != nil {
		return fn(ctx, reg)
	}
	return nil
}

// NotifierMock records everything shown to the student.
type NotifierMock struct {
	mu       sync.Mutex
	Alerts   []string
	Steps    []Step
	Receipts []Receipt
}

var _ Notifier = (*NotifierMock)(nil)

func (n *NotifierMock) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Alerts = append(n.Alerts, msg)
}

func (n *NotifierMock) StepChanged(step Step) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Steps = append(n.Steps, step)
}

func (n *NotifierMock) Registered(receipt Receipt) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Receipts = append(n.Receipts, receipt)
}

// LoggerMock discards every message.
type LoggerMock struct{}

func (LoggerMock) Debug(string, ...interface{}) {}
func (LoggerMock) Info(string, ...interface{})  {}
func (LoggerMock) Warn(string, ...interface{})  {}
func (LoggerMock) Error(string, ...interface{}) {}
func (LoggerMock) Fatal(string, ...interface{}) {}
