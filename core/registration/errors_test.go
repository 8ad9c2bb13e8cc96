package registration

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-signup/core"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "local validation",
			err:  core.NewValidationError(errors.New("enter valid email"), core.FieldError{Field: "email", Error: "enter valid email"}),
			want: "enter valid email",
		},
		{
			name: "remote: fields deduplicated and joined",
			err: &RemoteError{Fields: map[string][]string{
				"phone":        {"The phone has already been taken."},
				"email":        {"The email has already been taken.", "The phone has already been taken."},
				"parent_phone": {"The phone has already been taken."},
			}},
			want: "The email has already been taken.\nThe phone has already been taken.",
		},
		{
			name: "remote: fields win over message",
			err:  &RemoteError{Fields: map[string][]string{"email": {"taken"}}, Message: "The given data was invalid."},
			want: "taken",
		},
		{name: "remote: message only", err: &RemoteError{Message: "Registration is closed"}, want: "Registration is closed"},
		{name: "remote: empty", err: &RemoteError{StatusCode: 422}, want: GenericMessage},
		{
			name: "remote: age logic translated",
			err:  &RemoteError{Fields: map[string][]string{"birth_date": {"Invalid birth date (Age logic)"}}},
			want: ageLogicLocalized,
		},
		{
			name: "remote: age logic inside a longer message",
			err:  &RemoteError{Message: "Error: Invalid birth date (Age logic)!"},
			want: "Error: " + ageLogicLocalized + "!",
		},
		{
			name: "remote: wrapped",
			err:  pkgerrors.Wrap(&RemoteError{Message: "duplicate"}, "verifying personal step"),
			want: "duplicate",
		},
		{name: "transport", err: errors.New("dial tcp: connection refused"), want: GenericMessage},
		{name: "busy", err: ErrBusy, want: ErrBusy.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestRemoteError_Error(t *testing.T) {
	assert.Equal(t, GenericMessage, (&RemoteError{}).Error())
	assert.Equal(t, "a\nb", (&RemoteError{Fields: map[string][]string{"x": {"a", ""}, "y": {"b"}}}).Error())
}

func TestRemoteError_Messages_fieldNameOrder(t *testing.T) {
	err := &RemoteError{Fields: map[string][]string{
		"phone":      {"phone taken"},
		"birth_date": {"Invalid birth date (Age logic)"},
		"email":      {"email taken", ""},
	}}
	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"Invalid birth date (Age logic)", "email taken", "phone taken"}, err.Messages())
	}
}
