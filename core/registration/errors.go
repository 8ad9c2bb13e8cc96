package registration

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-signup/core"
)

var (
	ErrBusy        = errors.New("a request is already in progress")
	ErrFirstStep   = errors.New("already at the first step")
	ErrNotLastStep = errors.New("registration can only be submitted from the last step")
	ErrAlreadyDone = errors.New("registration already submitted")

	// ageLogicMessage is returned by the backend when the birth date does not fit the grade.
	ageLogicMessage   = "Invalid birth date (Age logic)"
	ageLogicLocalized = "تاريخ الميلاد غير مناسب للصف الدراسي المختار"

	GenericMessage = "something went wrong, please try again"
)

// RemoteError is a validation failure reported by the backend.
type RemoteError struct {
	StatusCode int
	Fields     map[string][]string
	Message    string
}

func (err *RemoteError) Error() string {
	if text := err.Text(); text != "" {
		return text
	}
	return GenericMessage
}

// Messages returns all field messages, deduplicated. Fields are visited in name order
// since the decoded envelope does not keep the backend's key order.
func (err *RemoteError) Messages() []string {
	names := make([]string, 0, len(err.Fields))
	for name := range err.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		for _, msg := range err.Fields[name] {
			if msg == "" || seen[msg] {
				continue
			}
			seen[msg] = true
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Text returns the field messages joined by newlines, or the top-level message when there are none.
func (err *RemoteError) Text() string {
	// sorted by field name, so the same response always reads the same
	if msgs := err.Messages(); len(msgs) > 0 {
		return strings.Join(msgs, "\n")
	}
	return err.Message
}

// UserMessage converts any wizard error into the message shown to the student.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}

	var rErr *RemoteError
	if errors.As(err, &rErr) {
		text := rErr.Text()
		if text == "" {
			return GenericMessage
		}
		return localize(text)
	}

	switch errors.Cause(err) {
	case ErrBusy, ErrFirstStep, ErrNotLastStep, ErrAlreadyDone:
		return errors.Cause(err).Error()
	}
	return GenericMessage
}

func localize(msg string) string {
	return strings.Replace(msg, ageLogicMessage, ageLogicLocalized, 1)
}
