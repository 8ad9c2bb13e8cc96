package student

import (
	"net/mail"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-signup/core"
	_ "github.com/trezcool/masomo-signup/core/registration" // registers the wizard's validation tags
)

const (
	ageLogicMessage = "Invalid birth date (Age logic)"

	welcomeTemplate = "student_welcome"
	welcomeText     = `Hello {{.Name}},

Welcome to Masomo! Your account is ready.
Log in with your phone number {{.Phone}} and the password you chose.`
	welcomeHTML = `<p>Hello {{.Name}},</p>
<p>Welcome to Masomo! Your account is ready.</p>
<p>Log in with your phone number <strong>{{.Phone}}</strong> and the password you chose.</p>`
)

var (
	// errors
	ErrNotFound          = errors.New("student not found")
	ErrEmailExists       = errors.New("The email has already been taken.")
	ErrPhoneExists       = errors.New("The phone has already been taken.")
	ErrParentPhoneExists = errors.New("The parent phone belongs to a registered student.")
	errAgeLogic          = errors.New(ageLogicMessage)

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// CheckUniqueness fails when email or phone is used by a Student,
		// or when parentPhone is a Student's own phone. Empty values are skipped.
		CheckUniqueness(email, phone, parentPhone string) error
		// CreateStudent runs the same check as CheckUniqueness atomically with the insert.
		CreateStudent(s Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByPhone(phone string) (Student, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func init() {
	if err := core.RegisterEmailTemplate(welcomeTemplate, welcomeText, welcomeHTML); err != nil {
		panic(err)
	}
}

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkUniqueness(email, phone, parentPhone string) error {
	return uniquenessError(svc.repo.CheckUniqueness(email, phone, parentPhone))
}

// uniquenessError maps repository conflicts to field errors.
func uniquenessError(err error) error {
	var field string
	switch err {
	case nil:
		return nil
	case ErrEmailExists:
		field = "email"
	case ErrPhoneExists:
		field = "phone"
	case ErrParentPhoneExists:
		field = "parent_phone"
	default:
		return err
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}

// checkAgeLogic verifies the student's age fits the chosen grade.
// Grade g expects an age in [g+3, g+8]; incomplete input is left to field validation.
func checkAgeLogic(grade, birthDate string) error {
	g, err := strconv.Atoi(grade)
	if err != nil {
		return nil
	}
	bd, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return nil
	}
	if age := nowFunc().Year() - bd.Year(); age < g+3 || age > g+8 {
		return core.NewValidationError(errAgeLogic, core.FieldError{Field: "birth_date", Error: ageLogicMessage})
	}
	return nil
}

// ValidateStep checks the fields of one wizard step.
// Unknown fields are ignored; cross-step rules only apply when all their fields are present.
func (svc *Service) ValidateStep(fields map[string]string) error {
	ns, names, err := newStudentFromFields(fields)
	if err != nil {
		return errors.Wrap(err, "decoding step fields")
	}
	if len(names) == 0 {
		return nil
	}
	if err := core.Validate.StructPartial(ns, names...); err != nil {
		return err
	}
	if err := svc.checkUniqueness(ns.Email, ns.Phone, ns.ParentPhone); err != nil {
		return err
	}
	if ns.GradeLevel != "" && ns.BirthDate != "" {
		return checkAgeLogic(ns.GradeLevel, ns.BirthDate)
	}
	return nil
}

// Register validates and stores a new Student.
func (svc *Service) Register(ns NewStudent, photo *Photo) (Student, error) {
	if photo != nil {
		ns.PhotoSize = photo.Size
		ns.PhotoType = photo.ContentType
	}
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	if err := svc.checkUniqueness(ns.Email, ns.Phone, ns.ParentPhone); err != nil {
		return Student{}, err
	}
	if err := checkAgeLogic(ns.GradeLevel, ns.BirthDate); err != nil {
		return Student{}, err
	}

	s := Student{
		Name:           ns.Name,
		Email:          ns.Email,
		Phone:          ns.Phone,
		EducationStage: ns.EducationStage,
		GradeLevel:     ns.GradeLevel,
		BirthDate:      ns.BirthDate,
		Gender:         ns.Gender,
		GuardianName:   ns.GuardianName,
		ParentPhone:    ns.ParentPhone,
		Governorate:    ns.Governorate,
		City:           ns.City,
		RememberMe:     ns.RememberMe == "1",
		Photo:          photo,
		CreatedAt:      nowFunc().UTC(),
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	s, err := svc.repo.CreateStudent(s)
	if err != nil {
		return Student{}, uniquenessError(err)
	}
	svc.sendWelcomeMail(s)
	return s, nil
}

func (svc *Service) sendWelcomeMail(s Student) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: s.Name, Address: s.Email}},
		Subject:      "Welcome to Masomo",
		TemplateName: welcomeTemplate,
		TemplateData: s,
	})
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByPhone(phone string) (Student, error) {
	return svc.repo.GetStudentByPhone(core.CleanString(phone))
}
