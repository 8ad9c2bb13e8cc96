package registration

import (
	"fmt"

	"github.com/trezcool/masomo-signup/core"
)

// Step is one of the four wizard pages.
type Step int

const (
	StepPersonal Step = iota + 1
	StepAcademic
	StepGuardian
	StepSecurity

	FirstStep = StepPersonal
	LastStep  = StepSecurity
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepAcademic:
		return "academic"
	case StepGuardian:
		return "guardian"
	case StepSecurity:
		return "security"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

const (
	RoleStudent = "student"

	// MaxPhotoSize is the largest profile photo accepted, in bytes.
	MaxPhotoSize = 5 * 1024 * 1024
)

type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Draft holds the form values of a registration being composed.
// Values are kept as entered (labels for stage, grade and gender).
type Draft struct {
	// personal
	FullName string
	Email    string
	Phone    string

	// academic
	EducationStage string
	GradeLevel     string
	BirthDate      string // 2006-01-02
	Gender         string

	// guardian
	GuardianName  string
	GuardianPhone string

	// security
	Password        string
	ConfirmPassword string
	Photo           *Photo
	Governorate     string
	City            string
	AgreeTerms      bool
	RememberMe      bool
}

// Registration is the payload of the final register call.
type Registration struct {
	Name                 string `json:"name" form:"name"`
	Email                string `json:"email" form:"email"`
	Phone                string `json:"phone" form:"phone"`
	EducationStage       string `json:"education_stage" form:"education_stage"`
	GradeLevel           string `json:"grade_level" form:"grade_level"`
	BirthDate            string `json:"birth_date" form:"birth_date"`
	Gender               string `json:"gender" form:"gender"`
	GuardianName         string `json:"guardian_name" form:"guardian_name"`
	ParentPhone          string `json:"parent_phone" form:"parent_phone"`
	Governorate          string `json:"governorate" form:"governorate"`
	City                 string `json:"city" form:"city"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
	Role                 string `json:"role" form:"role"`
	RememberMe           string `json:"remember_me" form:"remember_me"` // "0" | "1"
	ProfilePhoto         *Photo `json:"-" form:"-"`
}

// NewRegistration builds the register payload from a draft,
// mapping labels to the backend's vocabulary.
func NewRegistration(d Draft) Registration {
	rememberMe := "0"
	if d.RememberMe {
		rememberMe = "1"
	}
	return Registration{
		Name:                 core.CleanString(d.FullName),
		Email:                core.CleanString(d.Email),
		Phone:                d.Phone,
		EducationStage:       StageCode(d.EducationStage),
		GradeLevel:           GradeCode(d.GradeLevel),
		BirthDate:            d.BirthDate,
		Gender:               GenderCode(d.Gender),
		GuardianName:         d.GuardianName,
		ParentPhone:          d.GuardianPhone,
		Governorate:          d.Governorate,
		City:                 d.City,
		Password:             d.Password,
		PasswordConfirmation: d.ConfirmPassword,
		Role:                 RoleStudent,
		RememberMe:           rememberMe,
		ProfilePhoto:         d.Photo,
	}
}

// Fields returns the text fields of the payload in wire order.
func (r Registration) Fields() [][2]string {
	return [][2]string{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"education_stage", r.EducationStage},
		{"grade_level", r.GradeLevel},
		{"birth_date", r.BirthDate},
		{"gender", r.Gender},
		{"guardian_name", r.GuardianName},
		{"parent_phone", r.ParentPhone},
		{"governorate", r.Governorate},
		{"city", r.City},
		{"password", r.Password},
		{"password_confirmation", r.PasswordConfirmation},
		{"role", r.Role},
		{"remember_me", r.RememberMe},
	}
}

// Receipt is echoed back to the student once registered.
// It deliberately contains the plaintext password so the student can keep a copy.
type Receipt struct {
	Name     string
	Phone    string
	Password string
}
