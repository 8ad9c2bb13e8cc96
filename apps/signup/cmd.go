package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/masomo-signup/core"
	"github.com/trezcool/masomo-signup/core/registration"
	notifysvc "github.com/trezcool/masomo-signup/services/notify"
)

const backCmd = "back"

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp    = errors.New("help provided")
	errBack    = errors.New("back requested")
	errAborted = errors.New("sign-up aborted")
)

type commandLine struct {
	in       *bufio.Reader
	out      io.Writer
	logger   core.Logger
	baseURL  string
	loginURL string

	// newBackend builds the backend client once flags are parsed.
	newBackend func(baseURL string) registration.Backend
}

func (cli *commandLine) printUsage(fs *flag.FlagSet) {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  signup [-base-url URL] - register a new student account")
	_, _ = fmt.Fprintln(cli.out, "Type `back` at any prompt to return to the previous step.")
	fs.PrintDefaults()
}

func (cli *commandLine) run(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	baseURL := fs.String("base-url", cli.baseURL, "The backend API base URL.")
	fs.Usage = func() { cli.printUsage(fs) }

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	if fs.NArg() > 0 {
		cli.printUsage(fs)
		return errHelp
	}

	notifier := notifysvc.NewConsoleNotifier(cli.out, cli.loginURL)
	wiz := registration.NewWizard(cli.newBackend(*baseURL), notifier, cli.logger)
	notifier.StepChanged(wiz.Step())

	return cli.signUp(context.Background(), wiz, notifier)
}

// signUp drives the wizard until the student is registered.
func (cli *commandLine) signUp(ctx context.Context, wiz *registration.Wizard, notifier *notifysvc.ConsoleNotifier) error {
	for {
		step := wiz.Step()
		err := cli.fillStep(wiz, step)
		switch {
		case err == errBack:
			if err := wiz.Prev(); err == registration.ErrFirstStep {
				notifier.Alert(registration.UserMessage(err))
			}
			continue
		case err != nil:
			return err
		}

		if step < registration.LastStep {
			_ = wiz.Next(ctx) // failures are shown by the notifier
			continue
		}
		if _, err := wiz.Submit(ctx); err != nil {
			continue // draft is kept, fix and resubmit
		}

		if _, err := cli.readLine("Press Enter to continue to login..."); err != nil && err != io.EOF {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "Log in at %s\n", notifier.LoginURL())
		return nil
	}
}

// fillStep prompts for the fields of `step`. Answers given before a `back` are kept.
func (cli *commandLine) fillStep(wiz *registration.Wizard, step registration.Step) error {
	d := wiz.Draft()
	err := cli.fillDraft(&d, step)
	if err != nil && err != errBack {
		return err
	}
	if uErr := wiz.Update(func(draft *registration.Draft) { *draft = d }); uErr != nil {
		return uErr
	}
	return err
}

func (cli *commandLine) fillDraft(d *registration.Draft, step registration.Step) (err error) {
	switch step {
	case registration.StepPersonal:
		if d.FullName, err = cli.ask("Full name", d.FullName); err != nil {
			return err
		}
		if d.Email, err = cli.ask("Email", d.Email); err != nil {
			return err
		}
		if d.Phone, err = cli.ask("Phone (01xxxxxxxxx)", d.Phone); err != nil {
			return err
		}

	case registration.StepAcademic:
		if d.EducationStage, err = cli.choose("Education stage", optionLabels(registration.Stages), d.EducationStage); err != nil {
			return err
		}
		grades := registration.GradesFor(d.EducationStage)
		labels := make([]string, 0, len(grades))
		for _, g := range grades {
			labels = append(labels, g.Label)
		}
		if d.GradeLevel, err = cli.choose("Grade", labels, d.GradeLevel); err != nil {
			return err
		}
		if d.BirthDate, err = cli.ask("Birth date (YYYY-MM-DD)", d.BirthDate); err != nil {
			return err
		}
		if d.Gender, err = cli.choose("Gender", optionLabels(registration.Genders), d.Gender); err != nil {
			return err
		}

	case registration.StepGuardian:
		if d.GuardianName, err = cli.ask("Guardian name", d.GuardianName); err != nil {
			return err
		}
		if d.GuardianPhone, err = cli.ask("Guardian phone (01xxxxxxxxx)", d.GuardianPhone); err != nil {
			return err
		}

	case registration.StepSecurity:
		if d.Password, err = cli.askPassword("Password (min. 8 characters)"); err != nil {
			return err
		}
		if d.ConfirmPassword, err = cli.askPassword("Confirm password"); err != nil {
			return err
		}
		if d.Governorate, err = cli.choose("Governorate", registration.Governorates(), d.Governorate); err != nil {
			return err
		}
		cities, _ := registration.CitiesOf(d.Governorate)
		if d.City, err = cli.choose("City", cities, d.City); err != nil {
			return err
		}
		if d.Photo, err = cli.askPhoto(d.Photo); err != nil {
			return err
		}
		if d.AgreeTerms, err = cli.confirm("Do you agree to the terms and conditions?", d.AgreeTerms); err != nil {
			return err
		}
		if d.RememberMe, err = cli.confirm("Remember me?", d.RememberMe); err != nil {
			return err
		}
	}
	return nil
}

// Prompts

func (cli *commandLine) readLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(cli.out, prompt)
	line, err := cli.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask prompts for a value; an empty answer keeps `current`, as does `back`.
func (cli *commandLine) ask(label, current string) (string, error) {
	prompt := label + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, current)
	}
	line, err := cli.readLine(prompt)
	if err == io.EOF {
		return "", errAborted
	}
	if err != nil {
		return "", err
	}
	switch strings.TrimSpace(line) {
	case backCmd:
		return current, errBack
	case "":
		return current, nil
	}
	return line, nil
}

// choose prompts for one of `options`, by number or by value.
// An answer matching no option is kept as is and left to validation.
func (cli *commandLine) choose(label string, options []string, current string) (string, error) {
	for i, opt := range options {
		_, _ = fmt.Fprintf(cli.out, "  %d) %s\n", i+1, opt)
	}
	answer, err := cli.ask(label, current)
	if err != nil {
		return answer, err
	}
	if n, convErr := strconv.Atoi(strings.TrimSpace(answer)); convErr == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return answer, nil
}

func (cli *commandLine) confirm(label string, current bool) (bool, error) {
	def := "n"
	if current {
		def = "y"
	}
	answer, err := cli.ask(label+" (y/n)", def)
	if err != nil {
		return current, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// askPassword reads a hidden answer straight from the terminal, bypassing cli.in.
// Stdin must be a TTY: piped input may already sit in the bufio buffer.
func (cli *commandLine) askPassword(label string) (string, error) {
	_, _ = fmt.Fprint(cli.out, label+": ")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	if string(pwd) == backCmd {
		return "", errBack
	}
	return string(pwd), nil
}

// askPhoto loads the profile photo from a path; an empty answer keeps `current`.
func (cli *commandLine) askPhoto(current *registration.Photo) (*registration.Photo, error) {
	label := "Profile photo path"
	if current != nil {
		label = fmt.Sprintf("Profile photo path (%s)", current.Filename)
	}
	for {
		path, err := cli.ask(label, "")
		if err != nil {
			return current, err
		}
		if path == "" {
			return current, nil
		}
		photo, err := registration.LoadPhoto(strings.TrimSpace(path))
		if err != nil {
			_, _ = fmt.Fprintf(cli.out, "  ! %v\n", errors.Cause(err))
			continue
		}
		return photo, nil
	}
}

func optionLabels(options []registration.Option) []string {
	labels := make([]string, 0, len(options))
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	return labels
}
