package notifysvc

import (
	"fmt"
	"io"
	"strings"

	"github.com/trezcool/masomo-signup/core/registration"
)

var stepTitles = map[registration.Step]string{
	registration.StepPersonal: "Personal information",
	registration.StepAcademic: "Academic information",
	registration.StepGuardian: "Guardian information",
	registration.StepSecurity: "Account & location",
}

// ConsoleNotifier presents the wizard's outcomes on a terminal.
type ConsoleNotifier struct {
	out      io.Writer
	loginURL string
}

var _ registration.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(out io.Writer, loginURL string) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, loginURL: loginURL}
}

func (n *ConsoleNotifier) Alert(msg string) {
	_, _ = fmt.Fprintln(n.out)
	for _, line := range strings.Split(msg, "\n") {
		_, _ = fmt.Fprintf(n.out, "  ! %s\n", line)
	}
	_, _ = fmt.Fprintln(n.out)
}

func (n *ConsoleNotifier) StepChanged(step registration.Step) {
	_, _ = fmt.Fprintf(n.out, "\n=== Step %d/%d: %s ===\n", step, registration.LastStep, StepTitle(step))
}

func (n *ConsoleNotifier) Registered(receipt registration.Receipt) {
	line := strings.Repeat("-", 40)
	_, _ = fmt.Fprintln(n.out, line)
	_, _ = fmt.Fprintln(n.out, "Registration complete!")
	_, _ = fmt.Fprintln(n.out, "Take a screenshot of your login details:")
	_, _ = fmt.Fprintf(n.out, "  Name:     %s\n", receipt.Name)
	_, _ = fmt.Fprintf(n.out, "  Phone:    %s\n", receipt.Phone)
	_, _ = fmt.Fprintf(n.out, "  Password: %s\n", receipt.Password)
	_, _ = fmt.Fprintln(n.out, line)
}

// LoginURL is where the student continues once they acknowledged the receipt.
func (n *ConsoleNotifier) LoginURL() string {
	return n.loginURL
}

func StepTitle(step registration.Step) string {
	if title, ok := stepTitles[step]; ok {
		return title
	}
	return step.String()
}
