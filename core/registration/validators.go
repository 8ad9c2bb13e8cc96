package registration

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-signup/core"
)

const BirthDateLayout = "2006-01-02"

var (
	nowFunc = time.Now // mockable

	minAge = 6
	maxAge = 25

	// custom validation tags & texts
	phoneTag   = "egphone"
	phoneText  = "{0} must be a valid Egyptian mobile number"
	phoneRegex = regexp.MustCompile(`^01[0-2|5][0-9]{8}$`)

	emailTag   = "looseemail"
	emailText  = "{0} must be a valid email address"
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	ageRangeTag  = "agerange"
	ageRangeText = "{0} is not a reasonable birth date"

	governorateTag  = "governorate"
	governorateText = "{0} is not a known governorate"

	cityTag  = "cityof"
	cityText = "{0} is not a city of the selected governorate"

	imageTag  = "imagemime"
	imageText = "{0} must be an image"

	// wizard messages, by field
	fieldMessages = map[string]string{
		"name":                  "enter valid full name",
		"email":                 "enter valid email",
		"phone":                 "enter valid Egyptian phone",
		"education_stage":       "choose stage",
		"grade_level":           "choose grade",
		"birth_date":            "unreasonable birth date",
		"gender":                "choose gender",
		"guardian_name":         "enter valid guardian name",
		"parent_phone":          "invalid guardian phone",
		"password":              "too short",
		"password_confirmation": "mismatch",
		"governorate":           "choose governorate",
		"city":                  "choose city",
		"profile_photo":         "upload profile photo",
		"profile_photo_type":    "photo must be an image",
		"agree_terms":           "you must agree to the terms",
	}
	// wizard messages, by field & tag; take precedence over fieldMessages
	tagMessages = map[string]string{
		"parent_phone.nefield": "must differ from student phone",
		"profile_photo.max":    "photo must not exceed 5MB",
	}
)

func init() {
	registerValidators(core.Validate)
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	_ = validate.RegisterValidation(emailTag, emailValidation)
	_ = validate.RegisterValidation(ageRangeTag, ageRangeValidation)
	_ = validate.RegisterValidation(governorateTag, governorateValidation)
	_ = validate.RegisterValidation(cityTag, cityValidation)
	_ = validate.RegisterValidation(imageTag, imageValidation)

	core.RegisterCustomTranslation(validate, core.Translator, phoneTag, phoneText)
	core.RegisterCustomTranslation(validate, core.Translator, emailTag, emailText)
	core.RegisterCustomTranslation(validate, core.Translator, ageRangeTag, ageRangeText)
	core.RegisterCustomTranslation(validate, core.Translator, governorateTag, governorateText)
	core.RegisterCustomTranslation(validate, core.Translator, cityTag, cityText)
	core.RegisterCustomTranslation(validate, core.Translator, imageTag, imageText)
}

// per step forms; field order is the order of evaluation

type personalForm struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"looseemail"`
	Phone string `json:"phone" validate:"egphone"`
}

type academicForm struct {
	EducationStage string `json:"education_stage" validate:"required"`
	GradeLevel     string `json:"grade_level" validate:"required"`
	BirthDate      string `json:"birth_date" validate:"required,agerange"`
	Gender         string `json:"gender" validate:"required"`
}

type guardianForm struct {
	GuardianName string `json:"guardian_name" validate:"min=3"`
	ParentPhone  string `json:"parent_phone" validate:"egphone,nefield=StudentPhone"`
	StudentPhone string `json:"-"`
}

type securityForm struct {
	Password             string `json:"password" validate:"min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Governorate          string `json:"governorate" validate:"required,governorate"`
	City                 string `json:"city" validate:"required,cityof=Governorate"`
	PhotoSize            int64  `json:"profile_photo" validate:"required,max=5242880"`
	PhotoType            string `json:"profile_photo_type" validate:"imagemime"`
	AgreeTerms           bool   `json:"agree_terms" validate:"required"`
}

func newStepForm(step Step, d Draft) (interface{}, bool) {
	switch step {
	case StepPersonal:
		return personalForm{
			Name:  core.CleanString(d.FullName),
			Email: d.Email,
			Phone: d.Phone,
		}, true
	case StepAcademic:
		return academicForm{
			EducationStage: d.EducationStage,
			GradeLevel:     d.GradeLevel,
			BirthDate:      d.BirthDate,
			Gender:         d.Gender,
		}, true
	case StepGuardian:
		return guardianForm{
			GuardianName: d.GuardianName,
			ParentPhone:  d.GuardianPhone,
			StudentPhone: d.Phone,
		}, true
	case StepSecurity:
		form := securityForm{
			Password:             d.Password,
			PasswordConfirmation: d.ConfirmPassword,
			Governorate:          d.Governorate,
			City:                 d.City,
			AgreeTerms:           d.AgreeTerms,
		}
		if d.Photo != nil {
			form.PhotoSize = d.Photo.Size
			form.PhotoType = d.Photo.ContentType
		}
		return form, true
	default:
		return nil, false
	}
}

// fieldMessage returns the wizard message for a failed field validation.
func fieldMessage(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return fe.Translate(core.Translator)
}

// Age returns the age in years of someone born on birthDate, counted from the current year only.
func Age(birthDate time.Time) int {
	return nowFunc().Year() - birthDate.Year()
}

// IsValidPhone reports whether s is an 11-digit Egyptian mobile number.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// Custom Validators

func phoneValidation(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func emailValidation(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// ageRangeValidation checks that the birth date gives an age between minAge and maxAge.
func ageRangeValidation(fl validator.FieldLevel) bool {
	birth, err := time.Parse(BirthDateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	age := Age(birth)
	return age >= minAge && age <= maxAge
}

func governorateValidation(fl validator.FieldLevel) bool {
	_, ok := governorates[fl.Field().String()]
	return ok
}

// cityValidation checks that the city belongs to the governorate held by the sibling field named in the param.
func cityValidation(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}
	gov := parent.FieldByName(fl.Param())
	if !gov.IsValid() || gov.Kind() != reflect.String {
		return false
	}
	return IsCityOf(fl.Field().String(), gov.String())
}

func imageValidation(fl validator.FieldLevel) bool {
	return strings.HasPrefix(fl.Field().String(), "image/")
}
