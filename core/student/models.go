package student

import (
	"encoding/json"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-signup/core"
)

type Photo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

type Student struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	EducationStage string    `json:"education_stage"`
	GradeLevel     string    `json:"grade_level"`
	BirthDate      string    `json:"birth_date"`
	Gender         string    `json:"gender"`
	GuardianName   string    `json:"guardian_name"`
	ParentPhone    string    `json:"parent_phone"`
	Governorate    string    `json:"governorate"`
	City           string    `json:"city"`
	RememberMe     bool      `json:"remember_me"`
	Photo          *Photo    `json:"photo,omitempty"`
	PasswordHash   []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewStudent contains information needed to register a Student.
type NewStudent struct {
	Name                 string `json:"name" form:"name" validate:"required,notblank,min=3"`
	Email                string `json:"email" form:"email" validate:"required,looseemail"`
	Phone                string `json:"phone" form:"phone" validate:"required,egphone"`
	EducationStage       string `json:"education_stage" form:"education_stage" validate:"required,oneof=primary prep secondary"`
	GradeLevel           string `json:"grade_level" form:"grade_level" validate:"required,oneof=4 5 6 7 8 9 10 11 12"`
	BirthDate            string `json:"birth_date" form:"birth_date" validate:"required,agerange"`
	Gender               string `json:"gender" form:"gender" validate:"required,oneof=male female"`
	GuardianName         string `json:"guardian_name" form:"guardian_name" validate:"required,min=3"`
	ParentPhone          string `json:"parent_phone" form:"parent_phone" validate:"required,egphone,nefield=Phone"`
	Governorate          string `json:"governorate" form:"governorate" validate:"required,governorate"`
	City                 string `json:"city" form:"city" validate:"required,cityof=Governorate"`
	Password             string `json:"password" form:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 string `json:"role" form:"role" validate:"required,eq=student"`
	RememberMe           string `json:"remember_me" form:"remember_me" validate:"omitempty,oneof=0 1"`
	PhotoSize            int64  `json:"profile_photo" form:"-" validate:"omitempty,max=5242880"`
	PhotoType            string `json:"profile_photo_type" form:"-" validate:"omitempty,imagemime"`
}

// stepFieldNames maps the fields accepted by step validation to NewStudent struct fields.
var stepFieldNames = map[string]string{
	"name":            "Name",
	"email":           "Email",
	"phone":           "Phone",
	"education_stage": "EducationStage",
	"grade_level":     "GradeLevel",
	"birth_date":      "BirthDate",
	"gender":          "Gender",
	"guardian_name":   "GuardianName",
	"parent_phone":    "ParentPhone",
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.GuardianName = core.CleanString(ns.GuardianName)
}

// Validate runs the field validations on the complete registration.
func (ns *NewStudent) Validate() error {
	ns.clean()
	return core.Validate.Struct(ns)
}

// newStudentFromFields builds a partial NewStudent from step fields.
// It also returns the struct field names present, for partial validation.
func newStudentFromFields(fields map[string]string) (NewStudent, []string, error) {
	var ns NewStudent
	known := make(map[string]string, len(fields))
	names := make([]string, 0, len(fields))
	for key, val := range fields {
		if name, ok := stepFieldNames[key]; ok {
			known[key] = val
			names = append(names, name)
		}
	}
	data, err := json.Marshal(known)
	if err != nil {
		return ns, nil, err
	}
	if err := json.Unmarshal(data, &ns); err != nil {
		return ns, nil, err
	}
	ns.clean()
	return ns, names, nil
}
